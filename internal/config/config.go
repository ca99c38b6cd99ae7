package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// CurrentVersion is the only config schema version understood.
	CurrentVersion = 1
	// EnvPrefix prefixes environment overrides, e.g. CODESEEKER_TREE_MAXDEPTH.
	EnvPrefix = "CODESEEKER"
	// Dir is the per-project configuration directory.
	Dir = ".codeseeker"
)

// Config represents the complete codeseeker configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Tree       TreeConfig       `json:"tree" mapstructure:"tree"`
	Extraction ExtractionConfig `json:"extraction" mapstructure:"extraction"`
	Semantic   SemanticConfig   `json:"semantic" mapstructure:"semantic"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// TreeConfig controls file discovery and tree construction
type TreeConfig struct {
	DefaultPattern   string   `json:"defaultPattern" mapstructure:"defaultPattern"`
	Ignore           []string `json:"ignore" mapstructure:"ignore"`
	RespectGitignore bool     `json:"respectGitignore" mapstructure:"respectGitignore"`
	IncludeExternal  bool     `json:"includeExternal" mapstructure:"includeExternal"`
	MaxDepth         int      `json:"maxDepth" mapstructure:"maxDepth"`
}

// ExtractionConfig controls per-file analysis
type ExtractionConfig struct {
	MaxFileSizeBytes int64 `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
	CacheSize        int   `json:"cacheSize" mapstructure:"cacheSize"`
	UseTreeSitter    bool  `json:"useTreeSitter" mapstructure:"useTreeSitter"`
}

// SemanticConfig controls semantic enhancement
type SemanticConfig struct {
	Enabled             bool    `json:"enabled" mapstructure:"enabled"`
	SimilarityThreshold float64 `json:"similarityThreshold" mapstructure:"similarityThreshold"`
	MaxKeywords         int     `json:"maxKeywords" mapstructure:"maxKeywords"`
	MaxSimilar          int     `json:"maxSimilar" mapstructure:"maxSimilar"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format     string `json:"format" mapstructure:"format"`
	Level      string `json:"level" mapstructure:"level"`
	File       string `json:"file,omitempty" mapstructure:"file"`
	MaxSize    string `json:"maxSize,omitempty" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups,omitempty" mapstructure:"maxBackups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Tree: TreeConfig{
			DefaultPattern:   "**/*.{ts,tsx,js,jsx,py}",
			Ignore:           []string{"node_modules", "dist", "build", ".git", "coverage"},
			RespectGitignore: true,
			IncludeExternal:  false,
			MaxDepth:         5,
		},
		Extraction: ExtractionConfig{
			MaxFileSizeBytes: 1 << 20,
			CacheSize:        1024,
			UseTreeSitter:    true,
		},
		Semantic: SemanticConfig{
			Enabled:             true,
			SimilarityThreshold: 0.3,
			MaxKeywords:         10,
			MaxSimilar:          10,
		},
		Logging: LoggingConfig{
			Format:     "human",
			Level:      "warn",
			MaxSize:    "10MB",
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads <projectRoot>/.codeseeker/config.json on top of the
// defaults. A .env file in projectRoot is loaded into the environment first,
// then CODESEEKER_* variables override file values.
func LoadConfig(projectRoot string) (*Config, error) {
	envFile := filepath.Join(projectRoot, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, Dir))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so that partial files and env overrides
// merge with the defaults.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)

	v.SetDefault("tree.defaultPattern", d.Tree.DefaultPattern)
	v.SetDefault("tree.ignore", d.Tree.Ignore)
	v.SetDefault("tree.respectGitignore", d.Tree.RespectGitignore)
	v.SetDefault("tree.includeExternal", d.Tree.IncludeExternal)
	v.SetDefault("tree.maxDepth", d.Tree.MaxDepth)

	v.SetDefault("extraction.maxFileSizeBytes", d.Extraction.MaxFileSizeBytes)
	v.SetDefault("extraction.cacheSize", d.Extraction.CacheSize)
	v.SetDefault("extraction.useTreeSitter", d.Extraction.UseTreeSitter)

	v.SetDefault("semantic.enabled", d.Semantic.Enabled)
	v.SetDefault("semantic.similarityThreshold", d.Semantic.SimilarityThreshold)
	v.SetDefault("semantic.maxKeywords", d.Semantic.MaxKeywords)
	v.SetDefault("semantic.maxSimilar", d.Semantic.MaxSimilar)

	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
}

// Save writes the configuration to <projectRoot>/.codeseeker/config.json
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	if c.Tree.DefaultPattern == "" || !doublestar.ValidatePattern(c.Tree.DefaultPattern) {
		return &ConfigError{Field: "tree.defaultPattern", Message: "invalid glob pattern"}
	}
	if c.Tree.MaxDepth <= 0 {
		return &ConfigError{Field: "tree.maxDepth", Message: "must be positive"}
	}
	if c.Extraction.MaxFileSizeBytes <= 0 {
		return &ConfigError{Field: "extraction.maxFileSizeBytes", Message: "must be positive"}
	}
	if c.Extraction.CacheSize < 0 {
		return &ConfigError{Field: "extraction.cacheSize", Message: "must not be negative"}
	}
	if c.Semantic.SimilarityThreshold < 0 || c.Semantic.SimilarityThreshold > 1 {
		return &ConfigError{Field: "semantic.similarityThreshold", Message: "must be within [0, 1]"}
	}
	if c.Semantic.MaxKeywords <= 0 {
		return &ConfigError{Field: "semantic.maxKeywords", Message: "must be positive"}
	}
	if c.Semantic.MaxSimilar < 0 {
		return &ConfigError{Field: "semantic.maxSimilar", Message: "must not be negative"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be 'human' or 'json'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
