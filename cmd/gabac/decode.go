package main

import (
	"github.com/go-gabac/gabac"
	"github.com/go-gabac/gabac/internal/metrics"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var configPath, inputPath, outputPath, metricsAddr string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode an encoded block stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			in, out, closeFn, err := openStreams(inputPath, outputPath)
			if err != nil {
				return err
			}
			defer closeFn()

			if metricsAddr != "" {
				srv := metrics.StartHTTP(metricsAddr)
				defer srv.Close()
			}

			if err := gabac.Decode(cfg, in, out); err != nil {
				logError(err, -1)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to Configuration JSON")
	cmd.Flags().StringVar(&inputPath, "input", "", "Input file path (default stdin)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file path (default stdout)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (empty disables)")
	cmd.MarkFlagRequired("config")
	return cmd
}
