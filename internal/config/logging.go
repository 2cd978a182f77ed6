package config

import "fmt"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`                // debug, info, warn, error
	Format     string          `yaml:"format"`               // console, json
	File       string          `yaml:"file,omitempty"`       // empty = stderr
	Categories map[string]bool `yaml:"categories,omitempty"` // Per-category toggles
}

// Validate rejects unknown levels and formats.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Level)
	}
	switch c.Format {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Format)
	}
	return nil
}
