package model

import (
	"errors"
)

// ErrInvalidParams is returned when a request fails validation.
var ErrInvalidParams = errors.New("invalid params")

const (
	DefaultSearchN        = 10
	DefaultSearchProvider = "google"
	DefaultDetailTopK     = 6
	DefaultDetailMinScore = 0.70
	DefaultFilterMinScore = 0.80
	DefaultFilterTopK     = 6
)

// RagSearchRequest is the inbound request. It is validated once at entry and
// otherwise passed through the pipeline unchanged.
type RagSearchRequest struct {
	Query          string  `json:"query"`
	Locale         string  `json:"locale"`
	SearchN        int     `json:"search_n"`
	SearchProvider string  `json:"search_provider"`
	IsReranking    bool    `json:"is_reranking"`
	IsDetail       bool    `json:"is_detail"`
	DetailTopK     int     `json:"detail_top_k"`
	DetailMinScore float64 `json:"detail_min_score"`
	IsFilter       bool    `json:"is_filter"`
	FilterMinScore float64 `json:"filter_min_score"`
	FilterTopK     int     `json:"filter_top_k"`
}

// NewRagSearchRequest returns a request filled with defaults. Decoding JSON
// into it leaves absent fields at their default.
func NewRagSearchRequest() RagSearchRequest {
	return RagSearchRequest{
		SearchN:        DefaultSearchN,
		SearchProvider: DefaultSearchProvider,
		DetailTopK:     DefaultDetailTopK,
		DetailMinScore: DefaultDetailMinScore,
		FilterMinScore: DefaultFilterMinScore,
		FilterTopK:     DefaultFilterTopK,
	}
}

// Validate checks the only hard requirement: a non-empty query.
func (r RagSearchRequest) Validate() error {
	if r.Query == "" {
		return ErrInvalidParams
	}
	return nil
}
