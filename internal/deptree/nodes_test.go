package deptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "src_app_main_ts", SanitizeID("src/app/main.ts"))
	assert.Equal(t, "my_file_v2_js", SanitizeID("my-file@v2.js"))
}

func TestIDAllocator(t *testing.T) {
	ids := newIDAllocator()
	assert.Equal(t, "a_b_ts", ids.allocate("a_b_ts"))
	assert.Equal(t, "a_b_ts_2", ids.allocate("a_b_ts"))
	assert.Equal(t, "a_b_ts_3", ids.allocate("a_b_ts"))
}

func TestLanguageOf(t *testing.T) {
	assert.Equal(t, "typescript", LanguageOf("a/b.tsx"))
	assert.Equal(t, "javascript", LanguageOf("a.MJS"))
	assert.Equal(t, "python", LanguageOf("pkg/__init__.py"))
	assert.Equal(t, "unknown", LanguageOf("README"))
}

func TestIsEntryPointPath(t *testing.T) {
	for _, p := range []string{"index.ts", "src/main.py", "App.tsx", "server.js", "bin/cli.ts"} {
		assert.True(t, IsEntryPointPath(p), p)
	}
	for _, p := range []string{"src/indexer.ts", "mainframe.py", "util.ts"} {
		assert.False(t, IsEntryPointPath(p), p)
	}
}

func TestMaintainabilityIndex(t *testing.T) {
	assert.InDelta(t, 171-0.23, MaintainabilityIndex(1, 1), 1e-9)
	assert.InDelta(t, 171.0, MaintainabilityIndex(0, 0), 1e-9)
	assert.Zero(t, MaintainabilityIndex(1000, 1000))
	assert.Less(t, MaintainabilityIndex(500, 10), MaintainabilityIndex(50, 10))
}

func TestEstimateLinesOfCode(t *testing.T) {
	assert.Equal(t, 0, EstimateLinesOfCode(0))
	assert.Equal(t, 1, EstimateLinesOfCode(1))
	assert.Equal(t, 2, EstimateLinesOfCode(100))
	assert.Equal(t, 3, EstimateLinesOfCode(101))
}
