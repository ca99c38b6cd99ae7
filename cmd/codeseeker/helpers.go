package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jghiringhelli/codeseeker-sub004/internal/config"
	cserrors "github.com/jghiringhelli/codeseeker-sub004/internal/errors"
	"github.com/jghiringhelli/codeseeker-sub004/internal/extract"
	"github.com/jghiringhelli/codeseeker-sub004/internal/slogutil"
)

// loadConfig reads and validates the project configuration.
func loadConfig(projectRoot string) (*config.Config, error) {
	cfg, err := config.LoadConfig(projectRoot)
	if err != nil {
		return nil, cserrors.New(cserrors.ConfigInvalid, "cannot load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cserrors.New(cserrors.ConfigInvalid, err.Error(), err)
	}
	return cfg, nil
}

// newLogger builds the command logger. -v and -q override the configured
// level; logs always go to stderr so stdout stays clean for tree output.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, io.Closer, error) {
	level := slogutil.LevelFromString(cfg.Logging.Level)
	if cmd.Flags().Changed("verbose") || cmd.Flags().Changed("quiet") {
		level = slogutil.LevelFromVerbosity(verbosity, quiet)
	}
	return slogutil.NewSinkLogger(os.Stderr, level, slogutil.FileSink{
		Path:       cfg.Logging.File,
		Format:     cfg.Logging.Format,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// newExtractor returns the analyzer wrapped in its content-hash cache.
func newExtractor(cfg *config.Config, logger *slog.Logger) (extract.Extractor, error) {
	analyzer := extract.NewAnalyzer(extract.Options{
		MaxFileSizeBytes: cfg.Extraction.MaxFileSizeBytes,
		UseTreeSitter:    cfg.Extraction.UseTreeSitter,
	}, logger)
	if cfg.Extraction.CacheSize == 0 {
		return analyzer, nil
	}
	cached, err := extract.NewCachedExtractor(analyzer, cfg.Extraction.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// newContext returns a context cancelled on interrupt.
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
