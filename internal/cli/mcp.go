package cli

import (
	"github.com/spf13/cobra"

	"github.com/agenthands/ragsearch/internal/mcp"
)

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the rag_search tool over MCP stdio",
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

			srv, err := mcp.NewServer(a.pipeline, Version, a.logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
}
