package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/ragsearch/internal/core"
	"github.com/agenthands/ragsearch/internal/core/model"
)

func newSearchCmd(configPath *string) *cobra.Command {
	req := model.NewRagSearchRequest()

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one rag search and print the JSON response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			req.Query = strings.Join(args, " ")
			ctx := a.logger.WithContext(cmd.Context())
			data, err := a.pipeline.Run(ctx, "cli", req)
			return writeEnvelope(cmd.OutOrStdout(), data, err)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Locale, "locale", req.Locale, "search locale, e.g. en")
	f.IntVarP(&req.SearchN, "num", "n", req.SearchN, "number of search hits")
	f.StringVar(&req.SearchProvider, "provider", req.SearchProvider, "search provider")
	f.BoolVar(&req.IsReranking, "rerank", req.IsReranking, "re-rank hits by similarity")
	f.BoolVar(&req.IsDetail, "detail", req.IsDetail, "fetch full pages of top hits")
	f.IntVar(&req.DetailTopK, "detail-top-k", req.DetailTopK, "pages to fetch")
	f.Float64Var(&req.DetailMinScore, "detail-min-score", req.DetailMinScore, "minimum score for a page fetch")
	f.BoolVar(&req.IsFilter, "filter", req.IsFilter, "keep only relevant passages")
	f.Float64Var(&req.FilterMinScore, "filter-min-score", req.FilterMinScore, "minimum passage score")
	f.IntVar(&req.FilterTopK, "filter-top-k", req.FilterTopK, "passages to keep")
	return cmd
}

// writeEnvelope prints the same envelope the HTTP API returns. A pipeline
// error is printed, then returned so the exit code is non-zero.
func writeEnvelope(w io.Writer, data *model.SearchData, runErr error) error {
	var v any
	switch {
	case runErr == nil:
		v = model.RespData(data)
	case errors.Is(runErr, core.ErrInvalidParams), errors.Is(runErr, core.ErrSearchFailed):
		v = model.RespErr(runErr.Error())
	default:
		v = model.RespErr("rag search failed: " + runErr.Error())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return runErr
}
