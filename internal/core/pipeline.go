package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agenthands/ragsearch/internal/core/model"
	"github.com/agenthands/ragsearch/internal/fetch"
	"github.com/agenthands/ragsearch/internal/search"
	"github.com/agenthands/ragsearch/internal/store"
)

// Stage names as reported in DegradedStages and logs.
const (
	StageSearch = "search"
	StageRerank = "rerank"
	StageDetail = "detail"
	StageFilter = "filter"
)

// Pipeline runs search, then the optional rerank, detail and filter stages.
type Pipeline struct {
	Providers *search.Registry
	Reranker  *Reranker
	Detail    *DetailEnricher
	Filter    *ContentFilter
}

// NewPipeline wires one backend into both the reranker and the filter; each
// still builds its own index per call.
func NewPipeline(providers *search.Registry, backend store.Backend, fetcher fetch.PageFetcher, mode AccumulationMode) *Pipeline {
	return &Pipeline{
		Providers: providers,
		Reranker:  NewReranker(backend, backend),
		Detail:    NewDetailEnricher(fetcher),
		Filter:    NewContentFilter(backend, backend, mode),
	}
}

type stageFunc func(ctx context.Context, results []model.SearchResult) ([]model.SearchResult, error)

type stage struct {
	name    string
	enabled bool
	run     stageFunc
}

// Run executes one request. A search failure aborts with an error wrapping
// ErrSearchFailed. Failures in later stages are logged and reported in
// DegradedStages while the results from before the stage are kept.
func (p *Pipeline) Run(ctx context.Context, caller string, req model.RagSearchRequest) (*model.SearchData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := zerolog.Ctx(ctx).With().Str("caller", caller).Logger()
	ctx = log.WithContext(ctx)

	start := time.Now()
	results, err := p.search(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("stage", StageSearch).
		Dur("elapsed", time.Since(start)).
		Int("results", len(results)).
		Msg("Stage finished")

	stages := []stage{
		{
			name:    StageRerank,
			enabled: req.IsReranking,
			run: func(ctx context.Context, rs []model.SearchResult) ([]model.SearchResult, error) {
				return p.Reranker.Rerank(ctx, rs, req.Query)
			},
		},
		{
			name:    StageDetail,
			enabled: req.IsDetail,
			run: func(ctx context.Context, rs []model.SearchResult) ([]model.SearchResult, error) {
				return p.Detail.Enrich(ctx, rs, req.DetailMinScore, req.DetailTopK)
			},
		},
		{
			name:    StageFilter,
			enabled: req.IsFilter,
			run: func(ctx context.Context, rs []model.SearchResult) ([]model.SearchResult, error) {
				return p.Filter.Filter(ctx, rs, req.Query, req.FilterMinScore, req.FilterTopK)
			},
		},
	}

	results, stageErrs := runStages(ctx, results, stages)

	data := &model.SearchData{SearchResults: results}
	if data.SearchResults == nil {
		data.SearchResults = []model.SearchResult{}
	}
	for _, se := range stageErrs {
		data.DegradedStages = append(data.DegradedStages, se.Stage)
	}

	log.Info().
		Int("results", len(data.SearchResults)).
		Strs("degraded", data.DegradedStages).
		Dur("elapsed", time.Since(start)).
		Msg("Rag search finished")
	return data, nil
}

func (p *Pipeline) search(ctx context.Context, req model.RagSearchRequest) ([]model.SearchResult, error) {
	if req.SearchProvider != "" && !p.Providers.Has(req.SearchProvider) {
		zerolog.Ctx(ctx).Debug().
			Str("search_provider", req.SearchProvider).
			Msg("Unregistered search provider, using default")
	}
	provider, err := p.Providers.Get(req.SearchProvider)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	results, err := provider.Search(ctx, search.Params{
		Query:  req.Query,
		Num:    req.SearchN,
		Locale: req.Locale,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	return results, nil
}

// runStages folds results through the enabled stages. Each stage gets its own
// copy of the list; on error the previous list carries on.
func runStages(ctx context.Context, results []model.SearchResult, stages []stage) ([]model.SearchResult, []*StageError) {
	log := zerolog.Ctx(ctx)
	var errs []*StageError

	for _, s := range stages {
		if !s.enabled {
			continue
		}
		start := time.Now()
		next, err := s.run(ctx, model.CloneResults(results))
		if err != nil {
			se := &StageError{Stage: s.name, Err: err}
			errs = append(errs, se)
			log.Warn().
				Err(err).
				Str("stage", s.name).
				Msg("Stage failed, keeping previous results")
			continue
		}
		results = next
		log.Debug().
			Str("stage", s.name).
			Dur("elapsed", time.Since(start)).
			Msg("Stage finished")
	}
	return results, errs
}
