// Package discovery enumerates the source files of a project.
package discovery

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	cserrors "github.com/jghiringhelli/codeseeker-sub004/internal/errors"
	"github.com/jghiringhelli/codeseeker-sub004/internal/slogutil"
)

// DefaultPattern matches every supported source language.
const DefaultPattern = "**/*.{ts,tsx,js,jsx,py}"

// DefaultIgnore lists directories that are never scanned.
var DefaultIgnore = []string{"node_modules", "dist", "build", ".git", "coverage"}

// Options configures a Scanner.
type Options struct {
	// Pattern is a doublestar glob matched against project-relative paths.
	Pattern string
	// Ignore entries are directory names, or globs when they contain a meta character.
	Ignore []string
	// RespectGitignore skips paths matched by <root>/.gitignore.
	RespectGitignore bool
}

// Scanner walks a project tree and returns matching files.
type Scanner struct {
	opts   Options
	logger *slog.Logger
}

// NewScanner creates a Scanner. Empty options fall back to the defaults.
func NewScanner(opts Options, logger *slog.Logger) *Scanner {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.Ignore == nil {
		opts.Ignore = DefaultIgnore
	}
	return &Scanner{opts: opts, logger: slogutil.OrDiscard(logger)}
}

// Discover returns the sorted project-relative (forward-slash) paths under
// root that match the pattern.
func (s *Scanner) Discover(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, cserrors.New(cserrors.ProjectNotFound, "cannot access project path "+root, err)
	}
	if !info.IsDir() {
		return nil, cserrors.New(cserrors.ProjectNotFound, root+" is not a directory", nil)
	}
	if !doublestar.ValidatePattern(s.opts.Pattern) {
		return nil, cserrors.New(cserrors.DiscoveryFailed, "invalid file pattern "+s.opts.Pattern, nil)
	}

	var gitignore *ignore.GitIgnore
	if s.opts.RespectGitignore {
		gitignore = loadGitignore(root)
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if s.ignored(rel, d.Name()) || (gitignore != nil && gitignore.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if gitignore != nil && gitignore.MatchesPath(rel) {
			return nil
		}
		if s.ignored(rel, d.Name()) {
			return nil
		}

		matched, err := doublestar.Match(s.opts.Pattern, rel)
		if err != nil {
			return err
		}
		if matched {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, cserrors.New(cserrors.DiscoveryFailed, "cannot enumerate files under "+root, err)
	}

	sort.Strings(files)
	s.logger.Debug("Discovered files", "root", root, "pattern", s.opts.Pattern, "count", len(files))
	return files, nil
}

// ignored reports whether rel (with base name name) hits the ignore list.
func (s *Scanner) ignored(rel, name string) bool {
	for _, entry := range s.opts.Ignore {
		if strings.ContainsAny(entry, "*?[{") {
			if ok, _ := doublestar.Match(entry, rel); ok {
				return true
			}
			if ok, _ := path.Match(entry, name); ok {
				return true
			}
			continue
		}
		if entry == name || entry == rel {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// Match reports whether a project-relative path matches a doublestar
// pattern. Malformed patterns never match.
func Match(pattern, rel string) bool {
	ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
	return err == nil && ok
}
