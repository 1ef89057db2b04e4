package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.toml"

type ServerConfig struct {
	Port       string `toml:"port" yaml:"port"`
	AuthAPIKey string `toml:"auth_api_key" yaml:"auth_api_key"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type SearchConfig struct {
	Provider string   `toml:"provider" yaml:"provider"`
	APIKey   string   `toml:"api_key" yaml:"api_key"`
	BaseURL  string   `toml:"base_url" yaml:"base_url"`
	Timeout  Duration `toml:"timeout" yaml:"timeout"`
}

type EmbeddingConfig struct {
	Provider    string `toml:"provider" yaml:"provider"`
	Model       string `toml:"model" yaml:"model"`
	APIKey      string `toml:"api_key" yaml:"api_key"`
	BaseURL     string `toml:"base_url" yaml:"base_url"`
	BatchSize   int    `toml:"batch_size" yaml:"batch_size"`
	Concurrency int    `toml:"concurrency" yaml:"concurrency"`
	CacheSize   int    `toml:"cache_size" yaml:"cache_size"`
}

type StoreConfig struct {
	Backend      string `toml:"backend" yaml:"backend"` // "vector" or "keyword"
	ChunkSize    int    `toml:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap" yaml:"chunk_overlap"`
}

type FetchConfig struct {
	Timeout         Duration `toml:"timeout" yaml:"timeout"`
	MaxPageBytes    int64    `toml:"max_page_bytes" yaml:"max_page_bytes"`
	MaxContentChars int      `toml:"max_content_chars" yaml:"max_content_chars"`
	Workers         int      `toml:"workers" yaml:"workers"`
	UserAgent       string   `toml:"user_agent" yaml:"user_agent"`
	MaxRedirects    int      `toml:"max_redirects" yaml:"max_redirects"`
	CacheSize       int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL        Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	CachePath       string   `toml:"cache_path" yaml:"cache_path"`
}

type PipelineConfig struct {
	// FilterAccumulation selects how repeated filter matches build content:
	// "legacy" drops the first match of each result, "concat" keeps it.
	FilterAccumulation string `toml:"filter_accumulation" yaml:"filter_accumulation"`
}

type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Search    SearchConfig    `toml:"search" yaml:"search"`
	Embedding EmbeddingConfig `toml:"embedding" yaml:"embedding"`
	Store     StoreConfig     `toml:"store" yaml:"store"`
	Fetch     FetchConfig     `toml:"fetch" yaml:"fetch"`
	Pipeline  PipelineConfig  `toml:"pipeline" yaml:"pipeline"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Search: SearchConfig{
			Provider: "google",
			BaseURL:  "https://google.serper.dev",
			Timeout:  Duration(15 * time.Second),
		},
		Embedding: EmbeddingConfig{
			Provider:    "openai",
			Model:       "text-embedding-3-small",
			BatchSize:   64,
			Concurrency: 4,
			CacheSize:   1000,
		},
		Store: StoreConfig{
			Backend:      "vector",
			ChunkSize:    1024,
			ChunkOverlap: 20,
		},
		Fetch: FetchConfig{
			Timeout:      Duration(10 * time.Second),
			MaxPageBytes: 5 * 1024 * 1024,
			Workers:      16,
			UserAgent:    "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxRedirects: 5,
			CacheSize:    512,
			CacheTTL:     Duration(time.Hour),
		},
		Pipeline: PipelineConfig{
			FilterAccumulation: "legacy",
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error. The format is picked from the extension: .yaml/.yml or TOML.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables, mirroring the
// variable names the service has always read.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Port, "PORT")
	set(&c.Server.AuthAPIKey, "AUTH_API_KEY")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")
	set(&c.Search.Provider, "SEARCH_PROVIDER")
	set(&c.Search.APIKey, "SERPER_API_KEY")
	set(&c.Search.BaseURL, "SERPER_BASE_URL")
	set(&c.Embedding.Provider, "EMBEDDING_PROVIDER")
	set(&c.Embedding.BaseURL, "OPENAI_BASE_URL")
	set(&c.Embedding.Model, "OPENAI_EMBED_MODEL")
	set(&c.Store.Backend, "STORE_BACKEND")
	set(&c.Fetch.CachePath, "FETCH_CACHE_PATH")

	switch strings.ToLower(c.Embedding.Provider) {
	case "gemini":
		set(&c.Embedding.APIKey, "GEMINI_API_KEY")
	default:
		set(&c.Embedding.APIKey, "OPENAI_API_KEY")
	}

	if v := getenv("FETCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Fetch.Workers = n
		}
	}
}

// Validate rejects values the components cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case "vector", "keyword":
	default:
		return fmt.Errorf("unsupported store backend: %s", c.Store.Backend)
	}
	switch strings.ToLower(c.Pipeline.FilterAccumulation) {
	case "", "legacy", "concat":
	default:
		return fmt.Errorf("unsupported filter accumulation: %s", c.Pipeline.FilterAccumulation)
	}
	if c.Store.ChunkSize <= 0 {
		return fmt.Errorf("store.chunk_size must be positive")
	}
	if c.Store.ChunkOverlap < 0 || c.Store.ChunkOverlap >= c.Store.ChunkSize {
		return fmt.Errorf("store.chunk_overlap must be in [0, chunk_size)")
	}
	if c.Fetch.Workers <= 0 {
		return fmt.Errorf("fetch.workers must be positive")
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive")
	}
	return nil
}

// Duration reads "10s"-style strings from TOML and YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}
