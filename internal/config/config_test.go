package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "**/*.{ts,tsx,js,jsx,py}", cfg.Tree.DefaultPattern)
	assert.ElementsMatch(t, []string{"node_modules", "dist", "build", ".git", "coverage"}, cfg.Tree.Ignore)
	assert.False(t, cfg.Tree.IncludeExternal)
	assert.Equal(t, 5, cfg.Tree.MaxDepth)
	assert.InDelta(t, 0.3, cfg.Semantic.SimilarityThreshold, 1e-9)
	assert.Equal(t, 10, cfg.Semantic.MaxKeywords)
	assert.Equal(t, 10, cfg.Semantic.MaxSimilar)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFileMergesDefaults(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, Dir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := `{"version": 1, "tree": {"maxDepth": 9}, "semantic": {"enabled": false}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Tree.MaxDepth)
	assert.False(t, cfg.Semantic.Enabled)
	assert.Equal(t, "**/*.{ts,tsx,js,jsx,py}", cfg.Tree.DefaultPattern, "unset keys keep defaults")
	assert.Equal(t, 10, cfg.Semantic.MaxKeywords)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, Dir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644))

	_, err := LoadConfig(root)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("CODESEEKER_TREE_MAXDEPTH", "7")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Tree.MaxDepth)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	const key = "CODESEEKER_LOGGING_LEVEL"
	// register restore-to-unset, then clear so the .env value is applied
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(key+"=debug\n"), 0644))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSaveThenLoad(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Tree.IncludeExternal = true
	cfg.Logging.Format = "json"
	require.NoError(t, cfg.Save(root))

	loaded, err := LoadConfig(root)
	require.NoError(t, err)
	assert.True(t, loaded.Tree.IncludeExternal)
	assert.Equal(t, "json", loaded.Logging.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad version", func(c *Config) { c.Version = 5 }, "version"},
		{"empty pattern", func(c *Config) { c.Tree.DefaultPattern = "" }, "tree.defaultPattern"},
		{"bad pattern", func(c *Config) { c.Tree.DefaultPattern = "src/[" }, "tree.defaultPattern"},
		{"zero depth", func(c *Config) { c.Tree.MaxDepth = 0 }, "tree.maxDepth"},
		{"zero file size", func(c *Config) { c.Extraction.MaxFileSizeBytes = 0 }, "extraction.maxFileSizeBytes"},
		{"negative cache", func(c *Config) { c.Extraction.CacheSize = -1 }, "extraction.cacheSize"},
		{"threshold above one", func(c *Config) { c.Semantic.SimilarityThreshold = 1.5 }, "semantic.similarityThreshold"},
		{"threshold below zero", func(c *Config) { c.Semantic.SimilarityThreshold = -0.1 }, "semantic.similarityThreshold"},
		{"no keywords", func(c *Config) { c.Semantic.MaxKeywords = 0 }, "semantic.maxKeywords"},
		{"negative similar", func(c *Config) { c.Semantic.MaxSimilar = -1 }, "semantic.maxSimilar"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, cfgErr.Error(), tt.field)
		})
	}
}
