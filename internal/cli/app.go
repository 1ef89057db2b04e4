package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agenthands/ragsearch/internal/config"
	"github.com/agenthands/ragsearch/internal/core"
	"github.com/agenthands/ragsearch/internal/fetch"
	"github.com/agenthands/ragsearch/internal/llm"
	"github.com/agenthands/ragsearch/internal/logging"
	"github.com/agenthands/ragsearch/internal/search"
	"github.com/agenthands/ragsearch/internal/store"
)

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	pipeline *core.Pipeline
	closers  []io.Closer
}

// loadConfig reads the config file, applies env overrides and validates.
// An empty path falls back to CONFIG_PATH, then the default location.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: logging.New(cfg.Log),
	}

	var embedder llm.EmbedderClient
	if strings.EqualFold(cfg.Store.Backend, "vector") {
		e, err := llm.NewEmbedder(ctx, cfg.Embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		if c, ok := e.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		embedder = llm.NewCachedEmbedder(e, cfg.Embedding.CacheSize)
	}

	backend, err := store.NewBackend(cfg, embedder)
	if err != nil {
		a.Close()
		return nil, err
	}

	cache, err := fetch.NewCache(cfg.Fetch)
	if err != nil {
		a.Close()
		return nil, err
	}
	fetcher, err := fetch.NewHTTPFetcher(cfg.Fetch, fetch.WithCache(cache))
	if err != nil {
		_ = cache.Close()
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, fetcher)

	mode, err := core.ParseAccumulationMode(cfg.Pipeline.FilterAccumulation)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.pipeline = core.NewPipeline(newRegistry(cfg.Search), backend, fetcher, mode)

	a.logger.Debug().
		Str("store", cfg.Store.Backend).
		Str("embedding", cfg.Embedding.Provider).
		Str("search", cfg.Search.Provider).
		Str("filter_accumulation", mode.String()).
		Msg("Components initialized")
	return a, nil
}

// newRegistry registers Serper under both names the request may carry.
func newRegistry(cfg config.SearchConfig) *search.Registry {
	registry := search.NewRegistry(cfg.Provider)
	serper := search.NewSerperClient(cfg)
	registry.Register("google", serper)
	registry.Register("serper", serper)
	return registry
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
