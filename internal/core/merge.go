package core

import (
	"sort"

	"github.com/agenthands/ragsearch/internal/core/model"
)

// mergeScoresByUUID joins on uuid. Every result whose uuid is in scores gets
// that score; all other results are returned unchanged.
func mergeScoresByUUID(results []model.SearchResult, scores map[string]float64) []model.SearchResult {
	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		if s, ok := scores[r.UUID]; ok {
			r = r.WithScore(s)
		}
		out[i] = r
	}
	return out
}

// mergeContentByLink joins on link. Only results scored at or above minScore
// take the fetched content, so a duplicate link further down the list cannot
// pick up content it was never selected for.
func mergeContentByLink(results []model.SearchResult, contents map[string]string, minScore float64) []model.SearchResult {
	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		if c, ok := contents[r.Link]; ok && r.HasScore() && r.ScoreValue() >= minScore {
			r = r.WithContent(c)
		}
		out[i] = r
	}
	return out
}

// mergeContentByUUID joins on uuid and overwrites any content already set.
func mergeContentByUUID(results []model.SearchResult, contents map[string]string) []model.SearchResult {
	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		if c, ok := contents[r.UUID]; ok {
			r = r.WithContent(c)
		}
		out[i] = r
	}
	return out
}

// sortByScoreDesc orders results best first. Unscored results go last. Ties
// keep their input order.
func sortByScoreDesc(results []model.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if !a.HasScore() {
			return false
		}
		if !b.HasScore() {
			return true
		}
		return a.ScoreValue() > b.ScoreValue()
	})
}
