package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agenthands/ragsearch/internal/core/model"
	"github.com/agenthands/ragsearch/internal/store"
)

// AccumulationMode decides how the filter builds content for a uuid that
// matches more than once.
type AccumulationMode int

const (
	// AccumulateLegacy starts every uuid at "" and appends only the matches
	// after the first one.
	AccumulateLegacy AccumulationMode = iota
	// AccumulateConcat keeps the first match and appends the rest.
	AccumulateConcat
)

func ParseAccumulationMode(s string) (AccumulationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return AccumulateLegacy, nil
	case "concat":
		return AccumulateConcat, nil
	default:
		return AccumulateLegacy, fmt.Errorf("unknown accumulation mode: %s", s)
	}
}

func (m AccumulationMode) String() string {
	switch m {
	case AccumulateConcat:
		return "concat"
	default:
		return "legacy"
	}
}

type occurrence int

const (
	firstOccurrence occurrence = iota
	subsequentOccurrence
)

func (m AccumulationMode) accumulate(acc string, occ occurrence, content string) string {
	switch occ {
	case firstOccurrence:
		if m == AccumulateConcat {
			return content
		}
		return ""
	default:
		return acc + content
	}
}

// ContentFilter narrows fetched content down to the chunks most relevant to
// the query.
type ContentFilter struct {
	Store store.ResultStore
	Query store.ResultQuery
	Mode  AccumulationMode
}

func NewContentFilter(s store.ResultStore, q store.ResultQuery, mode AccumulationMode) *ContentFilter {
	return &ContentFilter{Store: s, Query: q, Mode: mode}
}

// Filter indexes only the results whose content is longer than their
// snippet, queries that index, and replaces each matched result's content
// with its accumulated matches.
func (f *ContentFilter) Filter(ctx context.Context, results []model.SearchResult, query string, minScore float64, topK int) ([]model.SearchResult, error) {
	enriched := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		if isEnriched(r) {
			enriched = append(enriched, r)
		}
	}
	if len(enriched) == 0 {
		zerolog.Ctx(ctx).Debug().Msg("No enriched results to filter")
		return results, nil
	}

	idx, err := f.Store.Store(ctx, enriched)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter index: %w", err)
	}
	defer idx.Close()

	matches, err := f.Query.Query(ctx, idx, query, minScore, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query filter index: %w", err)
	}

	contents := f.accumulate(matches)

	zerolog.Ctx(ctx).Debug().
		Int("enriched", len(enriched)).
		Int("matches", len(matches)).
		Str("mode", f.Mode.String()).
		Msg("Filtered content")
	return mergeContentByUUID(results, contents), nil
}

func (f *ContentFilter) accumulate(matches []model.Match) map[string]string {
	contents := make(map[string]string)
	for _, m := range matches {
		acc, seen := contents[m.UUID]
		occ := firstOccurrence
		if seen {
			occ = subsequentOccurrence
		}
		contents[m.UUID] = f.Mode.accumulate(acc, occ, m.Content)
	}
	return contents
}

// isEnriched reports whether r carries content longer than its snippet.
func isEnriched(r model.SearchResult) bool {
	return r.Content != nil && len(*r.Content) > len(r.Snippet)
}
