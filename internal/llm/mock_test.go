package llm

import (
	"context"
	"sync"
)

type MockEmbedder struct {
	mu     sync.Mutex
	Calls  [][]string
	Vector []float32
	Err    error
}

func (m *MockEmbedder) ModelName() string { return "mock" }

func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, texts)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = append([]float32{float32(len(t))}, m.Vector...)
	}
	return out, nil
}
