package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceDir:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for source %q", SourceDir)
		}
	case SourceHTTP:
		if c.BaseURL == "" {
			return fmt.Errorf("base_url is required for source %q", SourceHTTP)
		}
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
	default:
		return fmt.Errorf("unknown source %q (available: %s, %s)", c.Source, SourceDir, SourceHTTP)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if !validOutput(c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (available: %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the effective log level: debug when verbose, otherwise
// log_level.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func validOutput(s string) bool {
	for _, f := range OutputFormats {
		if f == s {
			return true
		}
	}
	return false
}
