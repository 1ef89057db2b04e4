package core

import (
	"context"
	"sync"

	"github.com/agenthands/ragsearch/internal/core/model"
	"github.com/agenthands/ragsearch/internal/fetch"
	"github.com/agenthands/ragsearch/internal/search"
	"github.com/agenthands/ragsearch/internal/store"
)

type MockProvider struct {
	Results []model.SearchResult
	Err     error
	Calls   []search.Params
}

func (m *MockProvider) Search(ctx context.Context, params search.Params) ([]model.SearchResult, error) {
	m.Calls = append(m.Calls, params)
	if m.Err != nil {
		return nil, m.Err
	}
	return model.CloneResults(m.Results), nil
}

type mockIndex struct {
	results []model.SearchResult
	closed  bool
}

func (i *mockIndex) Size() int    { return len(i.results) }
func (i *mockIndex) Close() error { i.closed = true; return nil }

type QueryCall struct {
	Query    string
	MinScore float64
	Limit    int
	Indexed  []model.SearchResult
}

// MockBackend returns canned matches. QueryFunc, when set, computes the
// matches from the indexed results; otherwise Matches is returned as is.
type MockBackend struct {
	StoreErr  error
	QueryErr  error
	Matches   []model.Match
	QueryFunc func(indexed []model.SearchResult, minScore float64, limit int) []model.Match

	Stored  [][]model.SearchResult
	Queries []QueryCall
	Indexes []*mockIndex
}

func (m *MockBackend) Store(ctx context.Context, results []model.SearchResult) (store.Index, error) {
	m.Stored = append(m.Stored, model.CloneResults(results))
	if m.StoreErr != nil {
		return nil, m.StoreErr
	}
	idx := &mockIndex{results: model.CloneResults(results)}
	m.Indexes = append(m.Indexes, idx)
	return idx, nil
}

func (m *MockBackend) Query(ctx context.Context, idx store.Index, query string, minScore float64, limit int) ([]model.Match, error) {
	mi := idx.(*mockIndex)
	m.Queries = append(m.Queries, QueryCall{Query: query, MinScore: minScore, Limit: limit, Indexed: mi.results})
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	if m.QueryFunc != nil {
		return m.QueryFunc(mi.results, minScore, limit), nil
	}
	return m.Matches, nil
}

type MockFetcher struct {
	Pages map[string]string
	Err   error

	mu        sync.Mutex
	Requested [][]string
}

func (m *MockFetcher) FetchMany(ctx context.Context, urls []string) ([]fetch.Page, error) {
	m.mu.Lock()
	m.Requested = append(m.Requested, append([]string(nil), urls...))
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var pages []fetch.Page
	for _, u := range urls {
		if c, ok := m.Pages[u]; ok {
			pages = append(pages, fetch.Page{URL: u, Content: c})
		}
	}
	return pages, nil
}

func sampleResults() []model.SearchResult {
	return []model.SearchResult{
		{UUID: "u1", Title: "iPhone 15 release", Link: "https://a.example/1", Snippet: "Released in September."},
		{UUID: "u2", Title: "Apple newsroom", Link: "https://b.example/2", Snippet: "Apple announces iPhone."},
		{UUID: "u3", Title: "Rumors", Link: "https://c.example/3", Snippet: "Next iPhone rumors."},
	}
}

func scored(results []model.SearchResult, scores ...float64) []model.SearchResult {
	out := model.CloneResults(results)
	for i, s := range scores {
		out[i] = out[i].WithScore(s)
	}
	return out
}

func uuids(results []model.SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.UUID
	}
	return ids
}

func newTestPipeline(provider search.Provider, backend store.Backend, fetcher fetch.PageFetcher, mode AccumulationMode) *Pipeline {
	registry := search.NewRegistry("google")
	registry.Register("google", provider)
	return NewPipeline(registry, backend, fetcher, mode)
}
