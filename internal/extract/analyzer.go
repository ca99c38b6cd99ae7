package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jghiringhelli/codeseeker-sub004/internal/slogutil"
)

const (
	parserTreeSitter = "tree-sitter"
	parserRegex      = "regex"
)

type treeResult struct {
	symbols    []Symbol
	complexity int
}

// Options configures an Analyzer.
type Options struct {
	// MaxFileSizeBytes rejects larger files; zero disables the limit.
	MaxFileSizeBytes int64
	// UseTreeSitter enables the tree-sitter front end when the build supports it.
	UseTreeSitter bool
}

// Analyzer is the default Extractor. Dependencies always come from the
// import scanner; symbols and complexity come from tree-sitter when
// available and from regular expressions otherwise.
type Analyzer struct {
	opts   Options
	ts     *treeSitter
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts Options, logger *slog.Logger) *Analyzer {
	a := &Analyzer{opts: opts, logger: slogutil.OrDiscard(logger)}
	if opts.UseTreeSitter && TreeSitterAvailable() {
		a.ts = newTreeSitter()
	}
	return a
}

// AnalyzeFile reads and analyzes the file at path.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileAnalysis, error) {
	lang, ok := LanguageFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if a.opts.MaxFileSizeBytes > 0 && info.Size() > a.opts.MaxFileSizeBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, info.Size(), a.opts.MaxFileSizeBytes)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeSource(ctx, path, source, lang)
}

// AnalyzeSource analyzes source that has already been read.
func (a *Analyzer) AnalyzeSource(ctx context.Context, path string, source []byte, lang Language) (*FileAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fa := &FileAnalysis{
		Path:         path,
		Language:     lang,
		Dependencies: ScanDependencies(source, lang),
		Complexity: Complexity{
			LinesOfCode: countLinesOfCode(source),
		},
	}

	if a.ts != nil {
		res, err := a.ts.analyze(ctx, source, lang)
		if err == nil {
			fa.Symbols = res.symbols
			fa.Complexity.CyclomaticComplexity = res.complexity
			fa.Parser = parserTreeSitter
			return fa, nil
		}
		a.logger.Debug("tree-sitter failed, using regex fallback", "file", path, "error", err.Error())
	}

	fa.Symbols = scanSymbols(source, lang)
	fa.Complexity.CyclomaticComplexity = estimateComplexity(source, lang)
	fa.Parser = parserRegex
	return fa, nil
}
