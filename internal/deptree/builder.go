package deptree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/jghiringhelli/codeseeker-sub004/internal/discovery"
	cserrors "github.com/jghiringhelli/codeseeker-sub004/internal/errors"
	"github.com/jghiringhelli/codeseeker-sub004/internal/extract"
	"github.com/jghiringhelli/codeseeker-sub004/internal/paths"
	"github.com/jghiringhelli/codeseeker-sub004/internal/slogutil"
)

// DefaultMaxDepth bounds rendering when a request leaves MaxDepth unset.
const DefaultMaxDepth = 5

// Options configures a Builder.
type Options struct {
	// Pattern is the discovery glob used when a request has no FilePattern.
	Pattern          string
	Ignore           []string
	RespectGitignore bool
	Semantic         SemanticOptions
	// Declarations add one declared cluster per user-defined module.
	Declarations []Declaration
}

// Builder turns a project directory into a DependencyTree.
type Builder struct {
	extractor extract.Extractor
	opts      Options
	logger    *slog.Logger
}

// NewBuilder creates a Builder. The extractor is required.
func NewBuilder(extractor extract.Extractor, opts Options, logger *slog.Logger) *Builder {
	if opts.Semantic == (SemanticOptions{}) {
		opts.Semantic = DefaultSemanticOptions()
	}
	return &Builder{extractor: extractor, opts: opts, logger: slogutil.OrDiscard(logger)}
}

// Build constructs the tree for req. When files is non-nil it is used
// instead of scanning the project; entries may be absolute or relative to
// the project root.
//
// Extraction failures for single files are logged and produce degraded
// nodes. An invalid project path, a failed scan or a failed stat aborts the
// build.
func (b *Builder) Build(ctx context.Context, req Request, files []string) (*DependencyTree, error) {
	start := time.Now()

	root, err := filepath.Abs(req.ProjectPath)
	if err != nil {
		return nil, cserrors.New(cserrors.ProjectNotFound, "cannot resolve project path "+req.ProjectPath, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, cserrors.New(cserrors.ProjectNotFound, "cannot access project path "+root, err)
	}
	if !info.IsDir() {
		return nil, cserrors.New(cserrors.ProjectNotFound, root+" is not a directory", nil)
	}

	rels, err := b.fileList(ctx, root, req, files)
	if err != nil {
		return nil, err
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	tree := &DependencyTree{
		ProjectPath: root,
		Nodes:       make(map[string]*Node, len(rels)),
		Edges:       []Edge{},
		Cycles:      []CircularDependency{},
		Clusters:    []ModuleCluster{},
		MaxDepth:    maxDepth,
	}

	ids := newIDAllocator()
	byPath := make(map[string]string, len(rels))
	order := make([]string, 0, len(rels))
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := b.fileNode(ctx, root, rel, ids)
		if err != nil {
			return nil, err
		}
		tree.Nodes[n.ID] = n
		byPath[rel] = n.ID
		order = append(order, n.ID)
	}

	linker := &edgeLinker{
		tree:            tree,
		ids:             ids,
		byPath:          byPath,
		includeExternal: req.IncludeExternal,
		externals:       make(map[string]string),
		seen:            make(map[edgeKey]bool),
	}
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := tree.Nodes[id]
		analysis, err := b.extractor.AnalyzeFile(ctx, paths.JoinProjectPath(root, n.Path))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			b.logger.Debug("Skipping dependencies", "file", n.Path, "error", err.Error())
			continue
		}
		linker.link(n, analysis)
	}

	tree.RebuildStructure()

	b.safeEnhance("cycle detection", func() {
		tree.Cycles = DetectCycles(tree.Nodes, tree.Edges)
	})
	b.safeEnhance("structural clustering", func() {
		tree.Clusters = append(tree.Clusters, StructuralClusters(tree.Nodes, tree.Edges)...)
	})
	if len(b.opts.Declarations) > 0 {
		b.safeEnhance("declared modules", func() {
			tree.Clusters = append(tree.Clusters, DeclaredClusters(tree.Nodes, tree.Edges, b.opts.Declarations)...)
		})
	}

	var mappings []SimilarityMapping
	if req.Semantic {
		b.safeEnhance("semantic clustering", func() {
			mappings = b.enhance(root, tree)
		})
	}

	tree.Stats = ComputeStatistics(tree, mappings)
	tree.SelectRoot()

	if req.CircularOnly {
		tree.unfiltered = tree.Edges
		tree.Edges = FilterCircular(tree.Edges, tree.Cycles)
	}

	if c, ok := b.extractor.(interface{ LogStats() }); ok {
		c.LogStats()
	}
	b.logger.Info("Dependency tree built",
		"project", root,
		"nodes", tree.Stats.TotalNodes,
		"edges", tree.Stats.TotalEdges,
		"cycles", len(tree.Cycles),
		"clusters", len(tree.Clusters),
		"duration", time.Since(start).String(),
	)
	return tree, nil
}

// fileList returns sorted, unique project-relative paths.
func (b *Builder) fileList(ctx context.Context, root string, req Request, files []string) ([]string, error) {
	if files == nil {
		pattern := req.FilePattern
		if pattern == "" {
			pattern = b.opts.Pattern
		}
		scanner := discovery.NewScanner(discovery.Options{
			Pattern:          pattern,
			Ignore:           b.opts.Ignore,
			RespectGitignore: b.opts.RespectGitignore,
		}, b.logger)
		return scanner.Discover(ctx, root)
	}

	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel := path.Clean(paths.NormalizePath(f))
		if filepath.IsAbs(f) {
			canonical, err := paths.CanonicalizePath(f, root)
			if err != nil {
				return nil, cserrors.New(cserrors.DiscoveryFailed, "cannot canonicalize "+f, err)
			}
			rel = canonical
		}
		if rel == "." || !paths.IsWithinProject(paths.JoinProjectPath(root, rel), root) {
			b.logger.Debug("Ignoring file outside project", "file", f)
			continue
		}
		if req.FilePattern != "" && !discovery.Match(req.FilePattern, rel) {
			continue
		}
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (b *Builder) fileNode(ctx context.Context, root, rel string, ids *idAllocator) (*Node, error) {
	abs := paths.JoinProjectPath(root, rel)
	info, err := os.Stat(abs)
	if err != nil {
		return nil, cserrors.New(cserrors.StatFailed, "cannot stat "+rel, err).
			WithDetails(map[string]string{"file": rel, "project": root})
	}

	n := &Node{
		ID:           ids.allocate(SanitizeID(rel)),
		Name:         path.Base(rel),
		Path:         rel,
		Kind:         KindFile,
		Language:     LanguageOf(rel),
		Size:         info.Size(),
		LastModified: info.ModTime().UTC(),
		IsEntryPoint: IsEntryPointPath(rel),
		Children:     []string{},
		Parents:      []string{},
	}

	analysis, err := b.extractor.AnalyzeFile(ctx, abs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		b.logger.Warn("Extraction failed, estimating metrics", "file", rel, "error", err.Error())
		n.Degraded = true
		n.Complexity = 1
		n.LinesOfCode = EstimateLinesOfCode(n.Size)
	} else {
		n.Complexity = analysis.Complexity.CyclomaticComplexity
		n.LinesOfCode = analysis.Complexity.LinesOfCode
	}
	n.Maintainability = MaintainabilityIndex(n.LinesOfCode, n.Complexity)
	return n, nil
}

type edgeKey struct {
	from, to string
	typ      EdgeType
}

// edgeLinker turns extractor dependencies into edges.
type edgeLinker struct {
	tree            *DependencyTree
	ids             *idAllocator
	byPath          map[string]string
	includeExternal bool
	// externals memoizes external node ids by import target.
	externals map[string]string
	seen      map[edgeKey]bool
}

func (l *edgeLinker) link(n *Node, analysis *extract.FileAnalysis) {
	n.Imports = nil
	n.Exports = nil
	for _, s := range analysis.Symbols {
		if s.IsExported {
			n.Exports = append(n.Exports, s.Name)
		}
	}

	for _, dep := range analysis.Dependencies {
		typ, ok := edgeTypeOf(dep)
		if !ok {
			continue
		}
		if dep.Type == extract.DepImport {
			n.Imports = append(n.Imports, dep.Target)
		}

		var to string
		if dep.IsExternal {
			if !l.includeExternal {
				continue
			}
			to = l.external(dep.Target)
		} else {
			to, ok = resolveImport(n.Path, dep.Target, l.byPath)
			if !ok || to == n.ID {
				continue
			}
		}

		key := edgeKey{from: n.ID, to: to, typ: typ}
		if l.seen[key] {
			continue
		}
		l.seen[key] = true
		l.tree.Edges = append(l.tree.Edges, Edge{
			From:       n.ID,
			To:         to,
			Type:       typ,
			Weight:     edgeWeight(dep, n.Complexity),
			Line:       dep.Line,
			IsExternal: dep.IsExternal,
		})
	}
}

func (l *edgeLinker) external(target string) string {
	if id, ok := l.externals[target]; ok {
		return id
	}
	id := l.ids.allocate("external_" + SanitizeID(target))
	l.externals[target] = id
	l.tree.Nodes[id] = &Node{
		ID:       id,
		Name:     target,
		Path:     target,
		Kind:     KindExternal,
		Language: "unknown",
		Children: []string{},
		Parents:  []string{},
	}
	return id
}

// edgeTypeOf maps a dependency to an edge type; calls produce no edge.
func edgeTypeOf(dep extract.Dependency) (EdgeType, bool) {
	switch dep.Type {
	case extract.DepImport:
		switch {
		case dep.Dynamic:
			return EdgeDynamicImport, true
		case dep.TypeOnly:
			return EdgeTypeOnly, true
		}
		return EdgeImport, true
	case extract.DepExport:
		if dep.TypeOnly {
			return EdgeTypeOnly, true
		}
		return EdgeExport, true
	case extract.DepInheritance:
		return EdgeInheritance, true
	case extract.DepComposition:
		return EdgeComposition, true
	default:
		return "", false
	}
}

// edgeWeight starts at 1; re-exports add 2, internal targets 1 and a
// source complexity above 10 adds 1.
func edgeWeight(dep extract.Dependency, sourceComplexity int) int {
	w := 1
	if dep.Type == extract.DepExport {
		w += 2
	}
	if !dep.IsExternal {
		w++
	}
	if sourceComplexity > 10 {
		w++
	}
	return w
}

// enhance runs keyword, domain and role inference and similarity scoring
// over File nodes, then appends the semantic clusters.
func (b *Builder) enhance(root string, tree *DependencyTree) []SimilarityMapping {
	var files []*Node
	for _, id := range tree.SortedIDs() {
		if n := tree.Nodes[id]; n.Kind == KindFile {
			files = append(files, n)
		}
	}

	EnhanceNodes(files, func(n *Node) (string, error) {
		data, err := os.ReadFile(paths.JoinProjectPath(root, n.Path))
		if err != nil {
			b.logger.Debug("Cannot read file for semantic analysis", "file", n.Path, "error", err.Error())
			return "", err
		}
		return string(data), nil
	}, b.opts.Semantic)

	mappings := ComputeSimilarities(files, b.opts.Semantic)
	tree.Clusters = append(tree.Clusters, SemanticClusters(files, mappings)...)
	b.logger.Debug("Semantic enhancement complete", "files", len(files), "similarities", len(mappings))
	return mappings
}

// safeEnhance runs an optional analysis stage. A panic is logged and the
// stage's result is left at its zero value.
func (b *Builder) safeEnhance(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("Analysis stage failed", "stage", stage, "error", fmt.Sprint(r))
		}
	}()
	fn()
}
