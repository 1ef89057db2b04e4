package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/ragsearch/internal/core/model"
	"github.com/agenthands/ragsearch/internal/llm"
)

// VectorStore scores chunks by cosine similarity between embeddings. Indexes
// are small (one request's results), so search is brute force.
type VectorStore struct {
	embedder    llm.EmbedderClient
	chunker     *Chunker
	batchSize   int
	concurrency int
}

func NewVectorStore(embedder llm.EmbedderClient, chunker *Chunker, batchSize, concurrency int) *VectorStore {
	if batchSize <= 0 {
		batchSize = 64
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &VectorStore{
		embedder:    embedder,
		chunker:     chunker,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

type vectorIndex struct {
	chunks  []chunk
	vectors [][]float32
	closed  bool
}

func (i *vectorIndex) Size() int { return len(i.chunks) }

func (i *vectorIndex) Close() error {
	i.closed = true
	i.chunks = nil
	i.vectors = nil
	return nil
}

// Store chunks every result and embeds the chunks in concurrent batches.
func (s *VectorStore) Store(ctx context.Context, results []model.SearchResult) (Index, error) {
	chunks, err := chunkResults(s.chunker, results)
	if err != nil {
		return nil, err
	}

	idx := &vectorIndex{
		chunks:  chunks,
		vectors: make([][]float32, len(chunks)),
	}
	if len(chunks) == 0 {
		return idx, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, c := range chunks[start:end] {
				texts = append(texts, c.Text)
			}
			vecs, err := s.embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("failed to embed chunks: %w", err)
			}
			if len(vecs) != len(texts) {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(texts))
			}
			// each goroutine owns a disjoint range
			copy(idx.vectors[start:end], vecs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (s *VectorStore) Query(ctx context.Context, idx Index, query string, minScore float64, limit int) ([]model.Match, error) {
	vi, ok := idx.(*vectorIndex)
	if !ok {
		return nil, ErrForeignIndex
	}
	if vi.closed {
		return nil, ErrIndexClosed
	}
	if limit <= 0 || len(vi.chunks) == 0 {
		return []model.Match{}, nil
	}

	qv, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(qv) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	matches := make([]model.Match, 0, len(vi.chunks))
	for i, c := range vi.chunks {
		score := cosineSimilarity(qv[0], vi.vectors[i])
		if score < minScore {
			continue
		}
		matches = append(matches, model.Match{UUID: c.UUID, Score: score, Content: c.Text})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
