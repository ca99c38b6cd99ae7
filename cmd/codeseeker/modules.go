package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jghiringhelli/codeseeker-sub004/internal/modules"
)

var (
	modulesProject string
	modulesForce   bool
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Manage module declarations (MODULES.toml)",
	Long: `Module declarations name groups of project paths. Each declared module
becomes a cluster in the dependency tree, and boundaries.allowed_dependencies
restricts which other modules it may import from.`,
}

var modulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List declared modules",
	Args:  cobra.NoArgs,
	RunE:  runModulesList,
}

var modulesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example MODULES.toml",
	Args:  cobra.NoArgs,
	RunE:  runModulesInit,
}

func init() {
	modulesCmd.PersistentFlags().StringVar(&modulesProject, "project", ".", "Project root directory")
	modulesInitCmd.Flags().BoolVar(&modulesForce, "force", false, "Overwrite an existing file")
	modulesCmd.AddCommand(modulesListCmd, modulesInitCmd)
	rootCmd.AddCommand(modulesCmd)
}

func runModulesList(cmd *cobra.Command, args []string) error {
	decls, err := modules.Load(modulesProject)
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		fmt.Printf("No modules declared. Run 'codeseeker modules init' to create %s.\n", filepath.Join(modulesProject, modules.DeclarationFile))
		return nil
	}
	for _, d := range decls {
		fmt.Printf("%s (%s) %s\n", d.Name, d.ID, d.Path)
		if d.Responsibility != "" {
			fmt.Printf("  %s\n", d.Responsibility)
		}
		if d.Boundaries != nil && d.Boundaries.AllowedDependencies != nil {
			fmt.Printf("  may depend on: %s\n", strings.Join(d.Boundaries.AllowedDependencies, ", "))
		}
	}
	return nil
}

func runModulesInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(modulesProject, modules.DeclarationFile)
	if _, err := os.Stat(path); err == nil && !modulesForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := modules.Write(path, modules.Example()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
