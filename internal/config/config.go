package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"hdrprefix/internal/rewrite"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".hdrprefix.yaml"

// Config holds all hdrprefix configuration.
type Config struct {
	// Include rewriting
	Rewrite RewriteConfig `yaml:"rewrite"`

	// Directory traversal
	Walk WalkConfig `yaml:"walk"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// RewriteConfig configures the include rewriter.
type RewriteConfig struct {
	// LibraryDir is prepended to rewritten include paths.
	LibraryDir string `yaml:"library_dir"`

	// UsePrefixFlag makes the -pref value the library directory instead of
	// only gating the rewrite.
	UsePrefixFlag bool `yaml:"use_prefix_flag"`
}

// WalkConfig configures recursive traversal.
type WalkConfig struct {
	// Exclude lists doublestar patterns relative to the walk root.
	Exclude []string `yaml:"exclude"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Rewrite: RewriteConfig{
			LibraryDir: rewrite.DefaultLibraryDir,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config at path. A missing file yields the defaults;
// environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("HDRPREFIX_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("HDRPREFIX_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if dir := os.Getenv("HDRPREFIX_LIBRARY_DIR"); dir != "" {
		c.Rewrite.LibraryDir = dir
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validateLibraryDir(c.Rewrite.LibraryDir); err != nil {
		return err
	}
	for _, pattern := range c.Walk.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("walk.exclude: invalid pattern %q", pattern)
		}
	}
	return c.Logging.Validate()
}

// PrefixSegment returns the directory segment for rewritten includes given
// the -pref flag value.
func (c *Config) PrefixSegment(pref string) string {
	if c.Rewrite.UsePrefixFlag && pref != "" {
		return pref
	}
	if c.Rewrite.LibraryDir == "" {
		return rewrite.DefaultLibraryDir
	}
	return c.Rewrite.LibraryDir
}

func validateLibraryDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("rewrite.library_dir is required")
	}
	if strings.ContainsAny(dir, `/<>"`) {
		return fmt.Errorf("rewrite.library_dir %q must be a single path segment", dir)
	}
	return nil
}
