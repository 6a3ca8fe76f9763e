package main

import (
	"fmt"
	"io"

	"github.com/go-gabac/gabac"
	"github.com/go-gabac/gabac/internal/bio"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var inputPath, outputPath string
	var wordSize int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Search for the smallest-encoding configuration for a symbol stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, closeFn, err := openStreams(inputPath, outputPath)
			if err != nil {
				return err
			}
			defer closeFn()

			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			symbols := bio.BytesToSymbols(bio.WordSize(wordSize), raw)

			cfg, err := gabac.Analyze(symbols, uint8(wordSize))
			if err != nil {
				logError(err, -1)
				return err
			}

			data, err := cfg.ToJSON()
			if err != nil {
				return fmt.Errorf("serializing configuration: %w", err)
			}
			if _, err := out.Write(data); err != nil {
				return fmt.Errorf("writing configuration: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Input file path (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output configuration JSON path (default stdout)")
	cmd.Flags().IntVar(&wordSize, "wordsize", 1, "Symbol word size in bytes: 1, 2, 4, or 8")
	cmd.MarkFlagRequired("input")
	return cmd
}
