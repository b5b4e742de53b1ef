// Package config provides configuration management for the eavexpr CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	Prefix      string         `koanf:"prefix"`
	DateMask    string         `koanf:"date_mask"`
	Output      string         `koanf:"output"`
	Verbose     bool           `koanf:"verbose"`
	LogLevel    string         `koanf:"log_level"`
	HistoryFile string         `koanf:"history_file"`
	Database    DatabaseConfig `koanf:"database"`
	Lint        LintConfig     `koanf:"lint"`
}

// DatabaseConfig selects the entry store used by query and seed.
type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// LintConfig adjusts the rules run by lint. Both are keyed by rule ID.
type LintConfig struct {
	Disabled []string          `koanf:"disabled"`
	Severity map[string]string `koanf:"severity"`
}

// Default configuration values.
const (
	DefaultPrefix      = "select * from entry_tags"
	DefaultDateMask    = "%Y-%m-%d"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultDriver      = "sqlite"
	DefaultDSN         = ".eavexpr/entries.db"
	DefaultHistoryFile = ".eavexpr/history"
)

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		Prefix:      DefaultPrefix,
		DateMask:    DefaultDateMask,
		Output:      DefaultOutput,
		LogLevel:    DefaultLogLevel,
		HistoryFile: DefaultHistoryFile,
		Database: DatabaseConfig{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
	}
}

// defaultsMap is Default in koanf's flat key form.
func defaultsMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"prefix":          d.Prefix,
		"date_mask":       d.DateMask,
		"output":          d.Output,
		"verbose":         false,
		"log_level":       d.LogLevel,
		"history_file":    d.HistoryFile,
		"database.driver": d.Database.Driver,
		"database.dsn":    d.Database.DSN,
	}
}
