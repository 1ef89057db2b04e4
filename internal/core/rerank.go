package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agenthands/ragsearch/internal/core/model"
	"github.com/agenthands/ragsearch/internal/store"
)

// Reranker scores every result against the query and sorts by that score.
type Reranker struct {
	Store store.ResultStore
	Query store.ResultQuery
}

func NewReranker(s store.ResultStore, q store.ResultQuery) *Reranker {
	return &Reranker{Store: s, Query: q}
}

// Rerank builds a fresh index over results, asks for every match with no
// score floor, and returns the results sorted by their new scores. When a
// uuid matches more than once the last match wins.
func (r *Reranker) Rerank(ctx context.Context, results []model.SearchResult, query string) ([]model.SearchResult, error) {
	idx, err := r.Store.Store(ctx, results)
	if err != nil {
		return nil, fmt.Errorf("failed to build rerank index: %w", err)
	}
	defer idx.Close()

	matches, err := r.Query.Query(ctx, idx, query, 0.0, len(results))
	if err != nil {
		return nil, fmt.Errorf("failed to query rerank index: %w", err)
	}

	scores := make(map[string]float64, len(matches))
	for _, m := range matches {
		scores[m.UUID] = m.Score
	}

	reranked := mergeScoresByUUID(results, scores)
	sortByScoreDesc(reranked)

	zerolog.Ctx(ctx).Debug().
		Int("chunks", idx.Size()).
		Int("matches", len(matches)).
		Int("scored", len(scores)).
		Msg("Reranked results")
	return reranked, nil
}
