package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cserrors "github.com/jghiringhelli/codeseeker-sub004/internal/errors"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("// "+rel+"\n"), 0644))
	}
}

func TestDiscover_DefaultPatternAndIgnoreList(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/index.ts",
		"src/app.tsx",
		"lib/util.js",
		"scripts/tool.py",
		"README.md",
		"node_modules/react/index.js",
		"dist/bundle.js",
		"coverage/lcov.js",
		"src/build/gen.ts",
	)

	files, err := NewScanner(Options{}, nil).Discover(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"lib/util.js", "scripts/tool.py", "src/app.tsx", "src/index.ts"}, files)
}

func TestDiscover_CustomPattern(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.ts", "src/b.py", "test/c.ts")

	files, err := NewScanner(Options{Pattern: "src/**/*.ts"}, nil).Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, files)
}

func TestDiscover_GlobIgnoreEntry(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.ts", "src/a.test.ts")

	files, err := NewScanner(Options{Ignore: []string{"**/*.test.ts"}}, nil).Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, files)
}

func TestDiscover_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.ts", "generated/api.ts", "src/schema.gen.ts")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated/\n*.gen.ts\n"), 0644))

	files, err := NewScanner(Options{RespectGitignore: true}, nil).Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, files)

	all, err := NewScanner(Options{}, nil).Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := NewScanner(Options{}, nil).Discover(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)

	code, ok := cserrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, cserrors.ProjectNotFound, code)
}

func TestDiscover_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.ts")

	_, err := NewScanner(Options{}, nil).Discover(context.Background(), filepath.Join(root, "a.ts"))
	code, ok := cserrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, cserrors.ProjectNotFound, code)
}

func TestDiscover_InvalidPattern(t *testing.T) {
	_, err := NewScanner(Options{Pattern: "src/["}, nil).Discover(context.Background(), t.TempDir())
	code, ok := cserrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, cserrors.DiscoveryFailed, code)
}

func TestDiscover_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.ts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(Options{}, nil).Discover(ctx, root)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("**/*.ts", "src/a/b.ts"))
	assert.True(t, Match("src/*.{ts,py}", "src/x.py"))
	assert.False(t, Match("src/*.ts", "lib/x.ts"))
	assert.False(t, Match("src/[", "src/["))
}
