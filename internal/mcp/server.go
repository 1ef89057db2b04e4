package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/agenthands/ragsearch/internal/core/model"
)

const (
	serverName = "ragsearch"
	toolName   = "rag_search"
)

// Searcher runs one rag search for a caller.
type Searcher interface {
	Run(ctx context.Context, caller string, req model.RagSearchRequest) (*model.SearchData, error)
}

// RagSearchInput mirrors the HTTP request body. Absent fields take the same
// defaults as over HTTP.
type RagSearchInput struct {
	Query          string   `json:"query" jsonschema:"natural-language search query"`
	Locale         string   `json:"locale,omitempty" jsonschema:"search locale sent to the provider, e.g. en"`
	SearchN        *int     `json:"search_n,omitempty" jsonschema:"number of search hits to fetch, default 10"`
	SearchProvider string   `json:"search_provider,omitempty" jsonschema:"search provider name, default google"`
	IsReranking    *bool    `json:"is_reranking,omitempty" jsonschema:"re-rank hits by semantic similarity"`
	IsDetail       *bool    `json:"is_detail,omitempty" jsonschema:"fetch full page content for top hits"`
	DetailTopK     *int     `json:"detail_top_k,omitempty" jsonschema:"number of pages to fetch, default 6"`
	DetailMinScore *float64 `json:"detail_min_score,omitempty" jsonschema:"minimum score for a page fetch, default 0.7"`
	IsFilter       *bool    `json:"is_filter,omitempty" jsonschema:"keep only the page passages relevant to the query"`
	FilterMinScore *float64 `json:"filter_min_score,omitempty" jsonschema:"minimum passage score, default 0.8"`
	FilterTopK     *int     `json:"filter_top_k,omitempty" jsonschema:"number of passages to keep, default 6"`
}

// Request converts the input to a pipeline request.
func (in RagSearchInput) Request() model.RagSearchRequest {
	req := model.NewRagSearchRequest()
	req.Query = in.Query
	req.Locale = in.Locale
	if in.SearchProvider != "" {
		req.SearchProvider = in.SearchProvider
	}
	setIfPresent(&req.SearchN, in.SearchN)
	setIfPresent(&req.IsReranking, in.IsReranking)
	setIfPresent(&req.IsDetail, in.IsDetail)
	setIfPresent(&req.DetailTopK, in.DetailTopK)
	setIfPresent(&req.DetailMinScore, in.DetailMinScore)
	setIfPresent(&req.IsFilter, in.IsFilter)
	setIfPresent(&req.FilterMinScore, in.FilterMinScore)
	setIfPresent(&req.FilterTopK, in.FilterTopK)
	return req
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Server exposes the pipeline as an MCP tool.
type Server struct {
	mcp      *mcp.Server
	searcher Searcher
	logger   zerolog.Logger
}

func NewServer(searcher Searcher, version string, logger zerolog.Logger) (*Server, error) {
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}

	s := &Server{
		searcher: searcher,
		logger:   logger,
	}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil,
	)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolName,
		Description: "Search the web for a query. Optionally re-rank hits by semantic similarity, fetch the full pages of the best hits, and keep only the passages relevant to the query.",
	}, s.ragSearchHandler)
	s.logger.Debug().Str("name", toolName).Msg("Registered tool")

	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Msg("Starting MCP server on stdio")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}

// ragSearchHandler returns pipeline failures as tool errors so the client
// sees the same messages as the HTTP envelope.
func (s *Server) ragSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, input RagSearchInput) (
	*mcp.CallToolResult,
	model.SearchData,
	error,
) {
	ctx = s.logger.With().Str("transport", "mcp").Logger().WithContext(ctx)

	data, err := s.searcher.Run(ctx, toolName, input.Request())
	if err != nil {
		return nil, model.SearchData{}, err
	}
	return nil, *data, nil
}
