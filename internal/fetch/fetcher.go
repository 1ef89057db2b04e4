package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/agenthands/ragsearch/internal/config"
)

var (
	// ErrUnsupportedContent is returned for responses that are not HTML or text.
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// Page is the extracted text of one fetched URL.
type Page struct {
	URL     string
	Content string
}

// PageFetcher retrieves many pages concurrently. A failure on one URL only
// drops that URL; an error is returned only when fetching could not run.
type PageFetcher interface {
	FetchMany(ctx context.Context, urls []string) ([]Page, error)
}

// HTTPFetcher fetches pages on a shared worker pool.
type HTTPFetcher struct {
	cfg    config.FetchConfig
	client *http.Client
	pool   *ants.Pool
	cache  PageCache
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithCache replaces the page cache.
func WithCache(cache PageCache) Option {
	return func(f *HTTPFetcher) {
		if cache != nil {
			f.cache = cache
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

func NewHTTPFetcher(cfg config.FetchConfig, opts ...Option) (*HTTPFetcher, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch pool: %w", err)
	}

	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 10
	}
	timeout := cfg.Timeout.Std()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	f := &HTTPFetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		pool:  pool,
		cache: NoopCache(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// NewCache picks the page cache configured in cfg.
func NewCache(cfg config.FetchConfig) (PageCache, error) {
	ttl := cfg.CacheTTL.Std()
	switch {
	case cfg.CachePath != "":
		return NewBoltCache(cfg.CachePath, ttl)
	case cfg.CacheSize > 0 && ttl > 0:
		return NewMemoryCache(cfg.CacheSize, ttl), nil
	default:
		return NoopCache(), nil
	}
}

// FetchMany fetches every URL and returns the successful pages in input
// order. It blocks until all fetches finish.
func (f *HTTPFetcher) FetchMany(ctx context.Context, urls []string) ([]Page, error) {
	log := zerolog.Ctx(ctx)
	pages := make([]*Page, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		err := f.pool.Submit(func() {
			defer wg.Done()
			content, err := f.Fetch(ctx, u)
			if err != nil {
				log.Debug().Err(err).Str("url", u).Msg("Fetch failed")
				return
			}
			pages[i] = &Page{URL: u, Content: content}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to schedule fetch: %w", err)
		}
	}
	wg.Wait()

	out := make([]Page, 0, len(urls))
	for _, p := range pages {
		if p != nil {
			out = append(out, *p)
		}
	}
	log.Debug().Int("requested", len(urls)).Int("fetched", len(out)).Msg("Fetched pages")
	return out, nil
}

// Fetch downloads one page and returns its text.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if content, ok := f.cache.Get(rawURL); ok {
		return content, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme: %s", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.cfg.MaxPageBytes > 0 {
		body = io.LimitReader(resp.Body, f.cfg.MaxPageBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var content string
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(contentType, "text/html"), strings.Contains(contentType, "application/xhtml"):
		content, err = extractText(data)
		if err != nil {
			return "", fmt.Errorf("failed to parse HTML: %w", err)
		}
	case strings.HasPrefix(contentType, "text/plain"):
		content = normalizeSpace(string(data))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}

	content = truncateRunes(content, f.cfg.MaxContentChars)
	f.cache.Set(rawURL, content)
	return content, nil
}

// Close releases the worker pool and the cache.
func (f *HTTPFetcher) Close() error {
	f.pool.Release()
	return f.cache.Close()
}
