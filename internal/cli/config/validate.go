package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/eavexpr/pkg/eav"
	"github.com/leapstack-labs/eavexpr/pkg/lint"
)

// Accepted values for enumerated settings.
var (
	OutputModes = []string{"auto", "text", "json", "csv", "md", "markdown", "xml"}
	LogLevels   = []string{"debug", "info", "warn", "error"}
	Drivers     = []string{"sqlite", "pgx"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputModes, strings.ToLower(c.Output)) {
		return fmt.Errorf("unknown output mode %q (expected one of: %s)", c.Output, strings.Join(OutputModes, ", "))
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("unknown log level %q (expected one of: %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if !slices.Contains(Drivers, c.Database.Driver) {
		return fmt.Errorf("unknown database driver %q (expected one of: %s)", c.Database.Driver, strings.Join(Drivers, ", "))
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if _, err := eav.New(eav.WithDateMask(c.DateMask)); err != nil {
		return err
	}
	if _, err := c.LintRules(); err != nil {
		return err
	}
	return nil
}

// LintRules returns the lint rule configuration described by Lint.
func (c *Config) LintRules() (*lint.Config, error) {
	rules, err := lint.ConfigFrom(c.Lint.Disabled, c.Lint.Severity)
	if err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}
	return rules, nil
}

// Level returns the slog level for LogLevel, or debug when Verbose is set.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
