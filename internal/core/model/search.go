package model

// SearchResult is one web search hit carried through every pipeline stage.
// Score and Content stay nil until a stage sets them, so they are omitted from
// the JSON until then.
type SearchResult struct {
	UUID    string   `json:"uuid"`
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	Snippet string   `json:"snippet"`
	Score   *float64 `json:"score,omitempty"`
	Content *string  `json:"content,omitempty"`
}

// HasScore reports whether a scoring stage has run on r.
func (r SearchResult) HasScore() bool {
	return r.Score != nil
}

// ScoreValue returns the score, or 0 when unscored.
func (r SearchResult) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// ContentValue returns the content, or "" when none was fetched.
func (r SearchResult) ContentValue() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}

// WithScore returns a copy of r carrying score.
func (r SearchResult) WithScore(score float64) SearchResult {
	r.Score = &score
	return r
}

// WithContent returns a copy of r carrying content.
func (r SearchResult) WithContent(content string) SearchResult {
	r.Content = &content
	return r
}

// Match is one scored chunk returned by a similarity query. A long document is
// split into several chunks, so several matches may share one UUID.
type Match struct {
	UUID    string  `json:"uuid"`
	Score   float64 `json:"score"`
	Content string  `json:"content,omitempty"`
}

// CloneResults copies the slice so a stage can work on it without touching
// the caller's list. Score and Content pointers are shared; stages replace
// them instead of writing through them.
func CloneResults(results []SearchResult) []SearchResult {
	if results == nil {
		return nil
	}
	out := make([]SearchResult, len(results))
	copy(out, results)
	return out
}
