package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// InMemoryPath is the store path marker for an in-memory database.
const InMemoryPath = ":memory:"

// DefaultFlushTimeout bounds how long Flush waits for its sentinel before
// reporting a timeout.
const DefaultFlushTimeout = 5 * time.Second

// Config is the full configuration surface of the pipeline.
type Config struct {
	Console ConsoleConfig `toml:"console"`
	Store   StoreConfig   `toml:"store"`
	Flush   FlushConfig   `toml:"flush"`
}

// ConsoleConfig controls the synchronous stdout sink.
type ConsoleConfig struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"` // minimum severity alias, e.g. "info"
	Color   bool   `toml:"color"`
}

// StoreConfig controls the durable SQLite sink. The store is meant to be the
// full-detail dump, so Level generally stays at "trace"; filtered reading
// belongs in views, not in the write path.
type StoreConfig struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	Path    string `toml:"path" validate:"required_if=Enabled true"`

	// Pragmas are executed verbatim against the connection at startup,
	// before the schema is created.
	Pragmas []string `toml:"pragmas"`

	// DefaultViews installs the stock view set alongside any user views.
	DefaultViews bool             `toml:"default_views"`
	Views        []ViewDefinition `toml:"views" validate:"dive"`
}

// ViewDefinition is a named, declarative, read-only projection over the
// record table. Query is the SELECT body; the adapter wraps it in
// CREATE VIEW IF NOT EXISTS, so re-installing on every startup is free.
type ViewDefinition struct {
	Name  string `toml:"name" validate:"required"`
	Query string `toml:"query" validate:"required"`
}

// FlushConfig controls the sentinel flush protocol.
type FlushConfig struct {
	Timeout string `toml:"timeout"` // duration string, e.g. "5s"
}

// Default returns the configuration used when no file is supplied: both
// sinks enabled, console at info, store at trace with synchronous writes
// off.
func Default() *Config {
	return &Config{
		Console: ConsoleConfig{
			Enabled: true,
			Level:   "info",
			Color:   true,
		},
		Store: StoreConfig{
			Enabled:      true,
			Level:        "trace",
			Path:         "logs/scribo.db",
			Pragmas:      []string{"PRAGMA synchronous = OFF"},
			DefaultViews: true,
		},
		Flush: FlushConfig{
			Timeout: "5s",
		},
	}
}

// Load reads TOML configuration files over the defaults. Later files
// override earlier ones: defaults -> file1 -> file2.
func Load(paths ...string) (*Config, error) {
	cfg := Default()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks structural constraints. Level aliases are deliberately not
// validated here: a bad alias degrades to the most permissive level at init
// time with a diagnostic instead of failing the embedding application.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Flush.Timeout != "" {
		if _, err := time.ParseDuration(c.Flush.Timeout); err != nil {
			return fmt.Errorf("invalid flush timeout %q: %w", c.Flush.Timeout, err)
		}
	}

	return nil
}

// FlushTimeout returns the parsed flush timeout, or DefaultFlushTimeout when
// unset.
func (c *Config) FlushTimeout() time.Duration {
	if c.Flush.Timeout == "" {
		return DefaultFlushTimeout
	}
	d, err := time.ParseDuration(c.Flush.Timeout)
	if err != nil || d <= 0 {
		return DefaultFlushTimeout
	}
	return d
}

// AllViews returns the views to install at startup: the defaults (unless
// disabled) followed by any user-defined views.
func (c *Config) AllViews() []ViewDefinition {
	var views []ViewDefinition
	if c.Store.DefaultViews {
		views = append(views, DefaultViews()...)
	}
	return append(views, c.Store.Views...)
}
