package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/agenthands/ragsearch/internal/core/model"
)

// KeywordStore scores chunks with BM25 over an in-memory bleve index. Scores
// are divided by the best hit so thresholds work on the same 0..1 scale as
// the vector store.
type KeywordStore struct {
	chunker *Chunker
}

func NewKeywordStore(chunker *Chunker) *KeywordStore {
	return &KeywordStore{chunker: chunker}
}

type keywordIndex struct {
	index  bleve.Index
	chunks map[string]chunk
	closed bool
}

func (i *keywordIndex) Size() int { return len(i.chunks) }

func (i *keywordIndex) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	return i.index.Close()
}

func (s *KeywordStore) Store(ctx context.Context, results []model.SearchResult) (Index, error) {
	chunks, err := chunkResults(s.chunker, results)
	if err != nil {
		return nil, err
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index: %w", err)
	}

	ki := &keywordIndex{index: idx, chunks: make(map[string]chunk, len(chunks))}
	batch := idx.NewBatch()
	for n, c := range chunks {
		id := fmt.Sprintf("%s:%d", c.UUID, n)
		ki.chunks[id] = c
		if err := batch.Index(id, map[string]interface{}{"content": c.Text}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("failed to index chunk %s: %w", id, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}
	return ki, nil
}

func (s *KeywordStore) Query(ctx context.Context, idx Index, query string, minScore float64, limit int) ([]model.Match, error) {
	ki, ok := idx.(*keywordIndex)
	if !ok {
		return nil, ErrForeignIndex
	}
	if ki.closed {
		return nil, ErrIndexClosed
	}
	if limit <= 0 || len(ki.chunks) == 0 || strings.TrimSpace(query) == "" {
		return []model.Match{}, nil
	}

	q := bleve.NewMatchQuery(query)
	q.SetField("content")
	req := bleve.NewSearchRequest(q)
	req.Size = limit

	res, err := ki.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(res.Hits) == 0 {
		return []model.Match{}, nil
	}

	top := res.Hits[0].Score
	matches := make([]model.Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		score := 0.0
		if top > 0 {
			score = hit.Score / top
		}
		if score < minScore {
			continue
		}
		c := ki.chunks[hit.ID]
		matches = append(matches, model.Match{UUID: c.UUID, Score: score, Content: c.Text})
	}
	return matches, nil
}
