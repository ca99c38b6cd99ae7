package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jghiringhelli/codeseeker-sub004/internal/config"
)

var (
	configProject string
	configForce   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the project configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to .codeseeker/config.json",
	Long: `Write the default configuration to .codeseeker/config.json in the project.

Values in the file can be overridden with CODESEEKER_ environment variables,
for example CODESEEKER_TREE_MAXDEPTH=8.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configCmd.PersistentFlags().StringVar(&configProject, "project", ".", "Project root directory")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(configProject, config.Dir, "config.json")
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(configProject); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
