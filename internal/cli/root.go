package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "ragsearch",
		Short:         "Retrieval-augmented web search service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (.toml or .yaml)")

	cmd.AddCommand(
		newServeCmd(&configPath),
		newSearchCmd(&configPath),
		newMCPCmd(&configPath),
	)
	return cmd
}

// Execute runs the root command; the default command is serve.
func Execute(ctx context.Context) error {
	cmd := NewRootCmd()
	if len(os.Args) == 1 {
		cmd.SetArgs([]string{"serve"})
	}
	return cmd.ExecuteContext(ctx)
}
