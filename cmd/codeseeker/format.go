package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
	"github.com/jghiringhelli/codeseeker-sub004/internal/extract"
	"github.com/jghiringhelli/codeseeker-sub004/internal/output"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatHuman, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use human, json or yaml)", s)
	}
}

// encode writes v as deterministic JSON or as YAML.
func encode(w io.Writer, v interface{}, format OutputFormat) error {
	switch format {
	case FormatJSON:
		data, err := output.DeterministicEncodeIndented(v, "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeOutputFile writes v as JSON to path, gzip-compressed when path ends
// in .gz.
func writeOutputFile(path string, v interface{}) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".gz") {
		return encode(f, v, FormatJSON)
	}
	zw := gzip.NewWriter(f)
	if err := encode(zw, v, FormatJSON); err != nil {
		return err
	}
	return zw.Close()
}

// readOutputFile reads a file written by writeOutputFile.
func readOutputFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".gz") {
		return io.ReadAll(f)
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// compareBaseline reports whether tree matches the export at path. Build ids,
// timestamps and the absolute project path are ignored.
func compareBaseline(path string, tree *deptree.DependencyTree) (bool, string, error) {
	baseline, err := readOutputFile(path)
	if err != nil {
		return false, "", err
	}
	current, err := output.DeterministicEncode(tree)
	if err != nil {
		return false, "", err
	}
	same, msg := output.CompareSnapshots(baseline, current)
	return same, msg, nil
}

// formatAnalysisHuman renders one file analysis for the analyze command.
func formatAnalysisHuman(a *extract.FileAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s\n", a.Path)
	fmt.Fprintf(&b, "Language: %s (parser: %s)\n", a.Language, a.Parser)
	fmt.Fprintf(&b, "Complexity: %d, %d lines of code\n", a.Complexity.CyclomaticComplexity, a.Complexity.LinesOfCode)

	fmt.Fprintf(&b, "\nSymbols (%d):\n", len(a.Symbols))
	for _, s := range a.Symbols {
		exported := ""
		if s.IsExported {
			exported = ", exported"
		}
		fmt.Fprintf(&b, "  %-10s %s (line %d%s)\n", s.Type, s.Name, s.Location.Line, exported)
	}

	fmt.Fprintf(&b, "\nDependencies (%d):\n", len(a.Dependencies))
	for _, d := range a.Dependencies {
		var flags []string
		if d.IsExternal {
			flags = append(flags, "external")
		}
		if d.Dynamic {
			flags = append(flags, "dynamic")
		}
		if d.TypeOnly {
			flags = append(flags, "type-only")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintf(&b, "  %-11s %s (line %d)%s\n", d.Type, d.Target, d.Line, suffix)
	}
	return b.String()
}
