package cli

import (
	"github.com/spf13/cobra"

	"github.com/agenthands/ragsearch/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rag-search HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.Server.AuthAPIKey == "" {
				a.logger.Warn().Msg("AUTH_API_KEY is empty, every rag-search request will be denied")
			}

			srv := server.NewServer(cfg.Server, a.pipeline, a.logger)
			return srv.ListenAndServe(cmd.Context(), ":"+cfg.Server.Port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides server.port")
	return cmd
}
