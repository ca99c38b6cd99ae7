// Package extract turns a single source file into symbols, dependencies and
// complexity metrics. The dependency tree builder consumes it through the
// Extractor interface.
package extract

import (
	"context"
	"errors"
	"strings"
)

// SymbolType classifies a declared symbol.
type SymbolType string

const (
	SymbolFunction  SymbolType = "function"
	SymbolClass     SymbolType = "class"
	SymbolInterface SymbolType = "interface"
	SymbolTypeAlias SymbolType = "type"
	SymbolVariable  SymbolType = "variable"
	SymbolEnum      SymbolType = "enum"
	SymbolMethod    SymbolType = "method"
	SymbolProperty  SymbolType = "property"
)

// Location is a 1-based source position.
type Location struct {
	Line      int `json:"line"`
	Column    int `json:"column"`
	EndLine   int `json:"endLine,omitempty"`
	EndColumn int `json:"endColumn,omitempty"`
}

// Symbol is a declaration found in a file.
type Symbol struct {
	Name       string     `json:"name"`
	Type       SymbolType `json:"type"`
	Location   Location   `json:"location"`
	IsExported bool       `json:"isExported,omitempty"`
}

// DependencyType classifies a dependency.
type DependencyType string

const (
	DepImport      DependencyType = "import"
	DepExport      DependencyType = "export"
	DepCall        DependencyType = "call"
	DepInheritance DependencyType = "inheritance"
	DepComposition DependencyType = "composition"
)

// Dependency is a reference from a file to another module.
type Dependency struct {
	Type       DependencyType `json:"type"`
	Target     string         `json:"target"`
	Line       int            `json:"line"`
	IsExternal bool           `json:"isExternal"`
	// Dynamic marks an import(...) expression.
	Dynamic bool `json:"dynamic,omitempty"`
	// TypeOnly marks an `import type` statement.
	TypeOnly bool `json:"typeOnly,omitempty"`
}

// Complexity holds file-level metrics.
type Complexity struct {
	CyclomaticComplexity int `json:"cyclomaticComplexity"`
	LinesOfCode          int `json:"linesOfCode"`
}

// FileAnalysis is the result of analyzing one file.
// Callers must treat it as read-only; cached results are shared.
type FileAnalysis struct {
	Path         string       `json:"path"`
	Language     Language     `json:"language"`
	Symbols      []Symbol     `json:"symbols"`
	Dependencies []Dependency `json:"dependencies"`
	Complexity   Complexity   `json:"complexity"`
	// Parser is "tree-sitter" or "regex".
	Parser string `json:"parser"`
}

// Extractor analyzes a single file.
type Extractor interface {
	AnalyzeFile(ctx context.Context, path string) (*FileAnalysis, error)
}

var (
	// ErrUnsupportedLanguage is returned for files with an unknown extension.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrFileTooLarge is returned for files above the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds size limit")
)

// IsRelative reports whether an import target refers to a project file.
func IsRelative(target string) bool {
	return strings.HasPrefix(target, ".") || strings.HasPrefix(target, "/")
}
