package main

import (
	"github.com/spf13/cobra"

	"github.com/jghiringhelli/codeseeker-sub004/internal/version"
)

var (
	// verbosity is the number of -v flags
	verbosity int
	quiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "codeseeker",
	Short: "codeseeker - dependency tree explorer",
	Long: `codeseeker builds the module dependency tree of a TypeScript, JavaScript or
Python project, detects circular dependencies, groups files into structural and
semantic clusters, and lets you browse the result interactively.`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("codeseeker version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
}
