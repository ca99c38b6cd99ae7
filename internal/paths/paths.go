// Package paths converts between absolute filesystem paths and the
// project-relative, forward-slash paths used as graph identities.
package paths

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CanonicalizePath converts an absolute path to a project-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to the project root
// - Returns the relative path with forward slashes
func CanonicalizePath(absolutePath string, projectRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		resolved = absolutePath
		if dir, err := filepath.EvalSymlinks(filepath.Dir(absolutePath)); err == nil {
			resolved = filepath.Join(dir, filepath.Base(absolutePath))
		}
	}

	rootResolved, err := filepath.EvalSymlinks(projectRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		rootResolved = projectRoot
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// IsWithinProject checks if a path is inside the project root
func IsWithinProject(p string, projectRoot string) bool {
	canonical, err := CanonicalizePath(p, projectRoot)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// NormalizePath converts OS separators to forward slashes
func NormalizePath(p string) string {
	return filepath.ToSlash(p)
}

// JoinProjectPath joins a project root with a canonical path
func JoinProjectPath(projectRoot string, canonicalPath string) string {
	parts := strings.Split(strings.ReplaceAll(canonicalPath, "\\", "/"), "/")
	return filepath.Join(append([]string{projectRoot}, parts...)...)
}

// ResolveRelative resolves an import specifier such as "./b" or "../lib/c"
// against the directory of fromPath. Both fromPath and the result are
// canonical (project-relative, forward-slash). ok is false when the result
// escapes the project root.
func ResolveRelative(fromPath, specifier string) (resolved string, ok bool) {
	dir := path.Dir(NormalizePath(fromPath))
	spec := NormalizePath(specifier)

	var joined string
	if strings.HasPrefix(spec, "/") {
		joined = path.Clean(strings.TrimPrefix(spec, "/"))
	} else {
		joined = path.Clean(path.Join(dir, spec))
	}

	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	return joined, true
}
