package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
port = "9090"

[fetch]
timeout = "3s"
workers = 2

[pipeline]
filter_accumulation = "concat"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout.Std())
	assert.Equal(t, 2, cfg.Fetch.Workers)
	assert.Equal(t, "concat", cfg.Pipeline.FilterAccumulation)
	// untouched sections keep defaults
	assert.Equal(t, "vector", cfg.Store.Backend)
	assert.Equal(t, 1024, cfg.Store.ChunkSize)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
store:
  backend: keyword
search:
  timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "keyword", cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout.Std())
}

func TestLoad_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":               "7000",
		"AUTH_API_KEY":       "secret",
		"SERPER_API_KEY":     "serper",
		"OPENAI_API_KEY":     "sk-test",
		"OPENAI_EMBED_MODEL": "text-embedding-3-large",
		"FETCH_WORKERS":      "3",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.AuthAPIKey)
	assert.Equal(t, "serper", cfg.Search.APIKey)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	assert.Equal(t, 3, cfg.Fetch.Workers)
}

func TestApplyEnv_GeminiKey(t *testing.T) {
	env := map[string]string{
		"EMBEDDING_PROVIDER": "gemini",
		"GEMINI_API_KEY":     "g-key",
		"OPENAI_API_KEY":     "sk-ignored",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "gemini", cfg.Embedding.Provider)
	assert.Equal(t, "g-key", cfg.Embedding.APIKey)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Store.Backend = "graph"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Pipeline.FilterAccumulation = "sum"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Store.ChunkOverlap = cfg.Store.ChunkSize
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Fetch.Workers = 0
	assert.Error(t, cfg.Validate())
}
