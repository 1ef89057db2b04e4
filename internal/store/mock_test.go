package store

import (
	"context"
	"strings"
	"sync"
)

// keywordEmbedder maps text to term counts over a fixed vocabulary, which
// makes cosine scores predictable.
type keywordEmbedder struct {
	mu    sync.Mutex
	vocab []string
	calls int
	Err   error
}

func newKeywordEmbedder(vocab ...string) *keywordEmbedder {
	return &keywordEmbedder{vocab: vocab}
}

func (e *keywordEmbedder) ModelName() string { return "keyword-test" }

func (e *keywordEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		lower := strings.ToLower(t)
		v := make([]float32, len(e.vocab))
		for j, w := range e.vocab {
			v[j] = float32(strings.Count(lower, w))
		}
		out[i] = v
	}
	return out, nil
}

type otherIndex struct{}

func (otherIndex) Size() int    { return 0 }
func (otherIndex) Close() error { return nil }
