package main

import (
	"github.com/go-gabac/gabac/internal/logging"
	"github.com/spf13/cobra"
)

// globalFlags holds the flags shared by every subcommand.
type globalFlags struct {
	logFormat string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "gabac",
		Short: "Entropy-code integer symbol streams with gabac",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Set(logging.New(flags.logFormat, logging.ParseLevel(flags.logLevel), cmd.ErrOrStderr()))
		},
	}

	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format: text|json")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug|info|warn|error")

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}
