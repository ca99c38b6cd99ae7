package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Show the symbols, dependencies and complexity of one file",
	Long: `Run the extractor on a single file and print what the tree builder sees:
declared symbols, import and export dependencies, and complexity metrics.

Examples:
  codeseeker analyze src/index.ts
  codeseeker analyze --format json app/models.py`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format (human, json, yaml)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(analyzeFormat)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cwd)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cmd, cfg)
	defer closer.Close()
	if err != nil {
		logger.Warn("Cannot open log file", "file", cfg.Logging.File, "error", err.Error())
	}

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}
	ctx, cancel := newContext()
	defer cancel()

	analysis, err := extractor.AnalyzeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", args[0], err)
	}

	if format == FormatHuman {
		fmt.Print(formatAnalysisHuman(analysis))
		return nil
	}
	return encode(os.Stdout, analysis, format)
}
