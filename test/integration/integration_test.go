//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ragsearch/internal/config"
	"github.com/agenthands/ragsearch/internal/core"
	"github.com/agenthands/ragsearch/internal/core/model"
	"github.com/agenthands/ragsearch/internal/fetch"
	"github.com/agenthands/ragsearch/internal/llm"
	"github.com/agenthands/ragsearch/internal/search"
	"github.com/agenthands/ragsearch/internal/store"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env")

	cfg, err := config.Load("../../config/config.toml")
	require.NoError(t, err)
	cfg.ApplyEnv(os.Getenv)
	require.NoError(t, cfg.Validate())

	if cfg.Search.APIKey == "" {
		t.Skip("Skipping integration test: SERPER_API_KEY not set")
	}
	return cfg
}

func TestSerperSearch(t *testing.T) {
	cfg := loadConfig(t)
	client := search.NewSerperClient(cfg.Search)

	results, err := client.Search(context.Background(), search.Params{Query: "iphone release date", Num: 3})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	seen := make(map[string]bool)
	for _, r := range results {
		assert.NotEmpty(t, r.Link)
		assert.False(t, seen[r.UUID], "uuids are unique")
		seen[r.UUID] = true
		assert.False(t, r.HasScore())
	}
}

func TestFullPipeline(t *testing.T) {
	cfg := loadConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = zerolog.New(zerolog.NewTestWriter(t)).WithContext(ctx)

	var embedder llm.EmbedderClient
	if cfg.Store.Backend == "vector" {
		if cfg.Embedding.APIKey == "" && cfg.Embedding.Provider != "ollama" {
			t.Skip("Skipping integration test: embedding api key not set")
		}
		e, err := llm.NewEmbedder(ctx, cfg.Embedding)
		require.NoError(t, err)
		embedder = llm.NewCachedEmbedder(e, cfg.Embedding.CacheSize)
	}
	backend, err := store.NewBackend(cfg, embedder)
	require.NoError(t, err)

	fetcher, err := fetch.NewHTTPFetcher(cfg.Fetch)
	require.NoError(t, err)
	defer fetcher.Close()

	registry := search.NewRegistry(cfg.Search.Provider)
	registry.Register("google", search.NewSerperClient(cfg.Search))
	pipeline := core.NewPipeline(registry, backend, fetcher, core.AccumulateLegacy)

	req := model.NewRagSearchRequest()
	req.Query = "iphone 15 release date"
	req.SearchN = 5
	req.IsReranking = true
	req.IsDetail = true
	req.DetailTopK = 2
	req.IsFilter = true

	data, err := pipeline.Run(ctx, "integration", req)
	require.NoError(t, err)
	require.NotEmpty(t, data.SearchResults)
	assert.NotContains(t, data.DegradedStages, core.StageRerank)

	for i := 1; i < len(data.SearchResults); i++ {
		prev, cur := data.SearchResults[i-1], data.SearchResults[i]
		if prev.HasScore() && cur.HasScore() {
			assert.GreaterOrEqual(t, prev.ScoreValue(), cur.ScoreValue())
		}
	}
	for _, r := range data.SearchResults {
		if r.Content != nil && r.HasScore() {
			t.Logf("%.3f %s (%d bytes)", r.ScoreValue(), r.Link, len(*r.Content))
		}
	}
}
