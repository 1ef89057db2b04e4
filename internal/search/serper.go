package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/agenthands/ragsearch/internal/config"
	"github.com/agenthands/ragsearch/internal/core/model"
)

const defaultSerperURL = "https://google.serper.dev"

// SerperClient queries Google through the Serper API.
type SerperClient struct {
	apiKey  string
	baseURL string
	client  *http.Client

	UUIDGenerator func() string
}

func NewSerperClient(cfg config.SearchConfig) *SerperClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultSerperURL
	}
	timeout := cfg.Timeout.Std()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SerperClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		UUIDGenerator: func() string {
			return uuid.New().String()
		},
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	HL  string `json:"hl,omitempty"`
}

func (c *SerperClient) Search(ctx context.Context, params Params) ([]model.SearchResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serper api key not configured")
	}

	payload, err := json.Marshal(serperRequest{Q: params.Query, Num: params.Num, HL: params.Locale})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read serper response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, fmt.Errorf("serper returned HTTP %d: %s", resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("serper returned invalid JSON")
	}

	organic := gjson.GetBytes(body, "organic")
	results := make([]model.SearchResult, 0, len(organic.Array()))
	organic.ForEach(func(_, hit gjson.Result) bool {
		results = append(results, model.SearchResult{
			UUID:    c.UUIDGenerator(),
			Title:   hit.Get("title").String(),
			Link:    hit.Get("link").String(),
			Snippet: hit.Get("snippet").String(),
		})
		return true
	})

	return results, nil
}
