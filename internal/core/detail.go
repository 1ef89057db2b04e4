package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agenthands/ragsearch/internal/core/model"
	"github.com/agenthands/ragsearch/internal/fetch"
)

// DetailEnricher downloads the pages of the best scored results.
type DetailEnricher struct {
	Fetcher fetch.PageFetcher
}

func NewDetailEnricher(f fetch.PageFetcher) *DetailEnricher {
	return &DetailEnricher{Fetcher: f}
}

// Enrich walks results in order and selects links scoring at least minScore.
// The size check runs before each result, so up to topK+1 links are taken.
// Fetched content is merged back by link.
func (d *DetailEnricher) Enrich(ctx context.Context, results []model.SearchResult, minScore float64, topK int) ([]model.SearchResult, error) {
	if d.Fetcher == nil {
		return nil, ErrNoFetcher
	}

	links, err := selectDetailLinks(results, minScore, topK)
	if err != nil {
		return nil, err
	}

	pages, err := d.Fetcher.FetchMany(ctx, links)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch details: %w", err)
	}

	contents := make(map[string]string, len(pages))
	for _, p := range pages {
		contents[p.URL] = p.Content
	}

	zerolog.Ctx(ctx).Debug().
		Int("selected", len(links)).
		Int("fetched", len(pages)).
		Msg("Fetched result details")
	return mergeContentByLink(results, contents, minScore), nil
}

// selectDetailLinks skips unscored results. A list with no scored result at
// all is an error, since nothing could ever be selected.
func selectDetailLinks(results []model.SearchResult, minScore float64, topK int) ([]string, error) {
	var links []string
	anyScored := false
	for _, r := range results {
		if len(links) > topK {
			break
		}
		if !r.HasScore() {
			continue
		}
		anyScored = true
		if r.ScoreValue() >= minScore {
			links = append(links, r.Link)
		}
	}
	if !anyScored && len(results) > 0 {
		return nil, ErrUnscoredResult
	}
	return links, nil
}
