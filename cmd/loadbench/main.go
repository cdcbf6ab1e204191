// Package main provides the CLI entry point for loadbench, a benchmark of
// strategies for loading dummy spreadsheet, CSV and binary tables.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/weiihann/loadbench/config"
	"github.com/weiihann/loadbench/harness"
	"github.com/weiihann/loadbench/report"
	"github.com/weiihann/loadbench/worker"
	"github.com/weiihann/loadbench/workload"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("loadbench failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var cfg runConfig

	root := &cobra.Command{
		Use:   "loadbench",
		Short: "Benchmark loading dummy tables from spreadsheet, CSV and binary files",
		Long: `Loadbench writes ten dummy tables as CSV, Excel and binary files, then
times nine ways of loading them back: one file after another, on a pool of
goroutines, or in separate worker processes. Timings go to the log file and
a comparison table is printed on stdout.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context(), logger, cmd.OutOrStdout(), cfg)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfg.configPath, "config", "",
		"Path to a YAML config file (default: built-in settings)")
	flags.BoolVar(&cfg.outputJSON, "json", false,
		"Output results as JSON instead of table")
	flags.BoolVar(&cfg.noColor, "no-color", false,
		"Disable colour in the results table")
	flags.BoolVar(&cfg.skipGenerate, "skip-generate", false,
		"Reuse the dummy files already in the input directory")

	root.AddCommand(newWorkerCmd())

	return root
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    worker.Command,
		Short:  "Load one file for a parent benchmark process",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return worker.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

type runConfig struct {
	configPath   string
	outputJSON   bool
	noColor      bool
	skipGenerate bool
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	out io.Writer,
	rc runConfig,
) error {
	cfg, err := config.Load(rc.configPath)
	if err != nil {
		return err
	}

	color.NoColor = rc.noColor || !isTerminal(out)

	logger.DebugContext(ctx, "starting benchmark",
		slog.String("input_dir", cfg.InputDir),
		slog.String("log_path", cfg.LogPath),
		slog.Int("files", cfg.Files),
		slog.Int("rows", cfg.Rows),
		slog.Int("cols", cfg.Cols),
	)

	h, err := harness.Instance(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("create harness: %w", err)
	}

	// Step 1: Generate the dummy files.
	var summary *workload.Summary

	if !rc.skipGenerate {
		s, err := h.Init(ctx)
		if err != nil {
			return err
		}

		summary = &s
	}

	// Step 2: Run every load routine.
	results, err := h.LoadFiles(ctx)
	if err != nil {
		return err
	}

	// Step 3: Report.
	if rc.outputJSON {
		if err := report.GenerateJSON(out, results); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}

		return nil
	}

	if summary != nil {
		report.WriteInputSummary(out, *summary)
	}

	if err := report.Generate(out, results); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
