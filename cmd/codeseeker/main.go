package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	cserrors "github.com/jghiringhelli/codeseeker-sub004/internal/errors"
	"github.com/jghiringhelli/codeseeker-sub004/internal/slogutil"
)

func main() {
	logger := slogutil.NewLogger(os.Stderr, slog.LevelInfo)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", "error", err.Error())
		printSuggestedFixes(err)
		os.Exit(1)
	}
}

func printSuggestedFixes(err error) {
	var ce *cserrors.CodeseekerError
	if !errors.As(err, &ce) {
		return
	}
	for _, fix := range ce.SuggestedFixes {
		if fix.Command != "" {
			fmt.Fprintf(os.Stderr, "  hint: %s (%s)\n", fix.Description, fix.Command)
		} else {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", fix.Description)
		}
	}
}
