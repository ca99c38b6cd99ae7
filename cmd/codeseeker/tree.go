package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
	cserrors "github.com/jghiringhelli/codeseeker-sub004/internal/errors"
	"github.com/jghiringhelli/codeseeker-sub004/internal/modules"
	"github.com/jghiringhelli/codeseeker-sub004/internal/navigator"
	"github.com/jghiringhelli/codeseeker-sub004/internal/render"
)

var (
	treeInteractive     bool
	treeFilter          string
	treeShowDeps        bool
	treeCircular        bool
	treeProject         string
	treeMaxDepth        int
	treeIncludeExternal bool
	treeSemantic        bool
	treeFormat          string
	treeOutput          string
	treeNoColor         bool
	treeBaseline        string
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Build and display the dependency tree of a project",
	Long: `Build the module dependency tree of a project and report circular
dependencies, clusters and statistics.

Without --interactive the tree is printed followed by a summary. With
--interactive a navigator prompt is opened on the built tree.

Examples:
  codeseeker tree
  codeseeker tree --project ./app --circular
  codeseeker tree --filter 'src/**/*.ts' --show-deps --max-depth 3
  codeseeker tree --format json --output tree.json.gz
  codeseeker tree --baseline tree.json.gz
  codeseeker tree -i`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().BoolVarP(&treeInteractive, "interactive", "i", false, "Open the interactive navigator")
	treeCmd.Flags().StringVar(&treeFilter, "filter", "", "Glob of files to include (default from config)")
	treeCmd.Flags().BoolVar(&treeShowDeps, "show-deps", false, "Label tree branches with dependency types")
	treeCmd.Flags().BoolVar(&treeCircular, "circular", false, "Only keep edges that belong to circular dependencies")
	treeCmd.Flags().StringVar(&treeProject, "project", ".", "Project root directory")
	treeCmd.Flags().IntVar(&treeMaxDepth, "max-depth", deptree.DefaultMaxDepth, "Maximum depth to display")
	treeCmd.Flags().BoolVar(&treeIncludeExternal, "include-external", false, "Include external packages as nodes")
	treeCmd.Flags().BoolVar(&treeSemantic, "semantic", true, "Run keyword, domain and similarity analysis")
	treeCmd.Flags().StringVar(&treeFormat, "format", "human", "Output format (human, json, yaml)")
	treeCmd.Flags().StringVarP(&treeOutput, "output", "o", "", "Also write the tree as JSON to this file (.gz compresses)")
	treeCmd.Flags().BoolVar(&treeNoColor, "no-color", false, "Disable colored output")
	treeCmd.Flags().StringVar(&treeBaseline, "baseline", "", "Compare the tree with a previous --output export")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(treeFormat)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(treeProject)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(root)
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

	decls, err := modules.Load(root)
	if err != nil {
		return cserrors.New(cserrors.ConfigInvalid, "invalid "+modules.DeclarationFile, err)
	}

	maxDepth := cfg.Tree.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		maxDepth = treeMaxDepth
	}
	semantic := cfg.Semantic.Enabled
	if cmd.Flags().Changed("semantic") {
		semantic = treeSemantic
	}

	builder := deptree.NewBuilder(extractor, deptree.Options{
		Pattern:          cfg.Tree.DefaultPattern,
		Ignore:           cfg.Tree.Ignore,
		RespectGitignore: cfg.Tree.RespectGitignore,
		Semantic: deptree.SemanticOptions{
			MaxKeywords: cfg.Semantic.MaxKeywords,
			MaxSimilar:  cfg.Semantic.MaxSimilar,
			Threshold:   cfg.Semantic.SimilarityThreshold,
		},
		Declarations: modules.ClusterDeclarations(decls),
	}, logger)

	ctx, cancel := newContext()
	defer cancel()

	tree, err := builder.Build(ctx, deptree.Request{
		ProjectPath:     root,
		FilePattern:     treeFilter,
		IncludeExternal: treeIncludeExternal || cfg.Tree.IncludeExternal,
		CircularOnly:    treeCircular,
		MaxDepth:        maxDepth,
		Semantic:        semantic,
	}, nil)
	if err != nil {
		return err
	}

	if treeOutput != "" {
		if err := writeOutputFile(treeOutput, tree); err != nil {
			return fmt.Errorf("writing %s: %w", treeOutput, err)
		}
		logger.Info("Dependency tree written", "file", treeOutput)
	}

	if treeBaseline != "" {
		same, msg, err := compareBaseline(treeBaseline, tree)
		if err != nil {
			return fmt.Errorf("reading baseline %s: %w", treeBaseline, err)
		}
		if same {
			logger.Info("Dependency tree matches baseline", "baseline", treeBaseline)
		} else {
			logger.Warn("Dependency tree differs from baseline", "baseline", treeBaseline, "reason", msg)
		}
	}

	if treeInteractive {
		nav := navigator.New(tree, os.Stdin, os.Stdout, navigator.Options{
			NoColor:   treeNoColor,
			TreeDepth: maxDepth,
		}, logger)
		logger.Debug("Opening navigator", "session", nav.SessionID())
		return nav.Run(ctx)
	}

	if format != FormatHuman {
		return encode(os.Stdout, tree, format)
	}
	printer := render.NewPrinter(os.Stdout, render.Options{
		MaxDepth: maxDepth,
		ShowDeps: treeShowDeps,
		NoColor:  treeNoColor,
	})
	printer.Report(tree)
	if len(decls) > 0 {
		violations := modules.CheckBoundaries(tree, decls)
		lines := make([]string, len(violations))
		for i, v := range violations {
			lines[i] = v.String()
		}
		fmt.Println()
		printer.Section("Module boundary violations", lines)
	}
	return nil
}
