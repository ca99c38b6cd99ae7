package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jghiringhelli/codeseeker-sub004/internal/deptree"
	"github.com/jghiringhelli/codeseeker-sub004/internal/extract"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"human", "JSON", "yaml"} {
		_, err := parseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := parseFormat("xml")
	assert.ErrorContains(t, err, "unsupported format: xml")
}

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Items []string `json:"items" yaml:"items"`
}

func TestEncode_JSONAndYAML(t *testing.T) {
	v := sample{Name: "a", Items: []string{}}

	var js bytes.Buffer
	require.NoError(t, encode(&js, v, FormatJSON))
	assert.JSONEq(t, `{"name":"a","items":[]}`, js.String())

	var ys bytes.Buffer
	require.NoError(t, encode(&ys, v, FormatYAML))
	var back sample
	require.NoError(t, yaml.Unmarshal(ys.Bytes(), &back))
	assert.Equal(t, "a", back.Name)

	assert.Error(t, encode(&js, v, FormatHuman))
}

func TestWriteOutputFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json.gz")
	require.NoError(t, writeOutputFile(path, sample{Name: "gz", Items: []string{"x"}}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	var back sample
	require.NoError(t, json.NewDecoder(zr).Decode(&back))
	assert.Equal(t, sample{Name: "gz", Items: []string{"x"}}, back)
}

func TestWriteOutputFile_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, writeOutputFile(path, sample{Name: "plain"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"plain"}`, string(data))
}

func TestFormatAnalysisHuman(t *testing.T) {
	got := formatAnalysisHuman(&extract.FileAnalysis{
		Path:     "src/user.ts",
		Language: "typescript",
		Parser:   "regex",
		Symbols: []extract.Symbol{
			{Name: "UserService", Type: extract.SymbolClass, Location: extract.Location{Line: 3}, IsExported: true},
		},
		Dependencies: []extract.Dependency{
			{Type: extract.DepImport, Target: "./db", Line: 1},
			{Type: extract.DepImport, Target: "lodash", Line: 2, IsExternal: true, TypeOnly: true},
		},
		Complexity: extract.Complexity{CyclomaticComplexity: 4, LinesOfCode: 30},
	})

	assert.Contains(t, got, "Language: typescript (parser: regex)")
	assert.Contains(t, got, "Complexity: 4, 30 lines of code")
	assert.Contains(t, got, "class      UserService (line 3, exported)")
	assert.Contains(t, got, "import      ./db (line 1)\n")
	assert.Contains(t, got, "import      lodash (line 2) [external, type-only]")
}

func buildProject(t *testing.T, files map[string]string) *deptree.DependencyTree {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	builder := deptree.NewBuilder(extract.NewAnalyzer(extract.Options{}, nil), deptree.Options{Pattern: "**/*.ts"}, nil)
	tree, err := builder.Build(context.Background(), deptree.Request{ProjectPath: root, Semantic: true}, nil)
	require.NoError(t, err)
	return tree
}

func TestCompareBaseline(t *testing.T) {
	project := map[string]string{
		"src/a.ts": "import { b } from './b';\nexport const a = 1;\n",
		"src/b.ts": "import { a } from './a';\nexport const b = 2;\n",
	}
	baseline := buildProject(t, project)
	path := filepath.Join(t.TempDir(), "baseline.json.gz")
	require.NoError(t, writeOutputFile(path, baseline))

	// Same sources in another directory: only build metadata differs.
	rebuilt := buildProject(t, project)
	require.NotEqual(t, baseline.ProjectPath, rebuilt.ProjectPath)
	require.NotEqual(t, baseline.Stats.BuildID, rebuilt.Stats.BuildID)
	same, msg, err := compareBaseline(path, rebuilt)
	require.NoError(t, err)
	assert.True(t, same, msg)

	project["src/c.ts"] = "import { a } from './a';\n"
	changed := buildProject(t, project)
	same, msg, err = compareBaseline(path, changed)
	require.NoError(t, err)
	assert.False(t, same)
	assert.Equal(t, "snapshots differ", msg)
}

func TestCompareBaseline_MissingFile(t *testing.T) {
	_, _, err := compareBaseline(filepath.Join(t.TempDir(), "none.json"), &deptree.DependencyTree{})
	assert.Error(t, err)
}
