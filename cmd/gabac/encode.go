package main

import (
	"fmt"
	"os"

	"github.com/go-gabac/gabac"
	"github.com/go-gabac/gabac/internal/logging"
	"github.com/go-gabac/gabac/internal/metrics"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var configPath, inputPath, outputPath, metricsAddr string
	var blockSize int

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a raw symbol stream",
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

			if err := gabac.Encode(cfg, blockSize, in, out); err != nil {
				logError(err, -1)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to Configuration JSON")
	cmd.Flags().StringVar(&inputPath, "input", "", "Input file path (default stdin)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file path (default stdout)")
	cmd.Flags().IntVar(&blockSize, "blocksize", 0, "Block size in bytes (0 = whole input as one block)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (empty disables)")
	cmd.MarkFlagRequired("config")
	return cmd
}

func loadConfig(path string) (*gabac.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}
	return gabac.FromJSON(data)
}

func openStreams(inputPath, outputPath string) (*os.File, *os.File, func(), error) {
	in := os.Stdin
	out := os.Stdout
	closers := []func(){}

	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening input: %w", err)
		}
		in = f
		closers = append(closers, func() { f.Close() })
	}
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("creating output: %w", err)
		}
		out = f
		closers = append(closers, func() { f.Close() })
	}
	return in, out, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

func logError(err error, blockIndex int) {
	if e, ok := err.(*gabac.Error); ok {
		logging.L().Error("operation_failed", "kind", e.Kind.String(), "message", e.Message, "block_index", blockIndex)
		return
	}
	logging.L().Error("operation_failed", "error", err)
}
