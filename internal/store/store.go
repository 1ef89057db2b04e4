package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenthands/ragsearch/internal/config"
	"github.com/agenthands/ragsearch/internal/core/model"
	"github.com/agenthands/ragsearch/internal/llm"
)

var (
	// ErrForeignIndex is returned when an index is queried by a backend that
	// did not build it.
	ErrForeignIndex = errors.New("index was not built by this store")

	// ErrIndexClosed is returned when querying a closed index.
	ErrIndexClosed = errors.New("index is closed")
)

// Index is an opaque handle over a fixed snapshot of results. It is built per
// call and never updated in place.
type Index interface {
	// Size is the number of indexed chunks.
	Size() int
	Close() error
}

// ResultStore builds an index over a batch of results.
type ResultStore interface {
	Store(ctx context.Context, results []model.SearchResult) (Index, error)
}

// ResultQuery runs a similarity query against an index. Matches scoring below
// minScore are dropped and at most limit matches are returned, best first.
type ResultQuery interface {
	Query(ctx context.Context, idx Index, query string, minScore float64, limit int) ([]model.Match, error)
}

// Backend is a store that can also query its own indexes.
type Backend interface {
	ResultStore
	ResultQuery
}

// NewBackend builds the backend named by cfg.Store.Backend. The vector
// backend needs an embedder; the keyword backend ignores it.
func NewBackend(cfg *config.Config, embedder llm.EmbedderClient) (Backend, error) {
	chunker := NewChunker(cfg.Store.ChunkSize, cfg.Store.ChunkOverlap)

	switch strings.ToLower(cfg.Store.Backend) {
	case "vector":
		if embedder == nil {
			return nil, fmt.Errorf("vector store requires an embedder")
		}
		return NewVectorStore(embedder, chunker, cfg.Embedding.BatchSize, cfg.Embedding.Concurrency), nil
	case "keyword":
		return NewKeywordStore(chunker), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

// documentText is what gets indexed for a result: its fetched content when
// there is any, otherwise the title and snippet.
func documentText(r model.SearchResult) string {
	if c := r.ContentValue(); strings.TrimSpace(c) != "" {
		return c
	}
	return strings.TrimSpace(r.Title + "\n" + r.Snippet)
}

type chunk struct {
	UUID string
	Text string
}

func chunkResults(chunker *Chunker, results []model.SearchResult) ([]chunk, error) {
	var chunks []chunk
	for _, r := range results {
		text := documentText(r)
		if text == "" {
			continue
		}
		parts, err := chunker.Split(text)
		if err != nil {
			return nil, fmt.Errorf("failed to split result %s: %w", r.UUID, err)
		}
		for _, p := range parts {
			chunks = append(chunks, chunk{UUID: r.UUID, Text: p})
		}
	}
	return chunks, nil
}
