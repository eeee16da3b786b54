// Package sqlite is the durable store adapter. The sink consumer is the
// only writer; readers (views, dumps) come in through their own read-only
// connections.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribo/pkg/config"
	_ "modernc.org/sqlite"
)

// DB manages the SQLite database connection for the durable sink.
type DB struct {
	db     *sql.DB
	logger arbor.ILogger
	cfg    *config.StoreConfig
}

// New opens (creating if necessary) the store, applies the configured
// pragmas, ensures the schema exists and installs the view definitions.
// Every step is idempotent, so running it against an existing database on
// every startup is a no-op.
func New(logger arbor.ILogger, cfg *config.StoreConfig, views []config.ViewDefinition) (*DB, error) {
	if cfg.Path != config.InMemoryPath {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses "sqlite" driver name (not "sqlite3")
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: the consumer is the sole writer, and for the
	// ":memory:" marker a second pooled connection would see a different
	// database entirely.
	db.SetMaxOpenConns(1)

	s := &DB{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	if err := s.configure(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := s.installViews(views); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install views: %w", err)
	}

	logger.Info().Str("path", cfg.Path).Msg("log store initialized")
	return s, nil
}

// configure executes the configured pragmas. Each write is its own implicit
// transaction (autocommit); with synchronous writes the per-record fsync
// dominates, which is why the default config ships PRAGMA synchronous = OFF.
func (s *DB) configure() error {
	for _, pragma := range s.cfg.Pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

// migrate ensures the log_records table exists.
func (s *DB) migrate() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// DB returns the underlying database connection.
func (s *DB) DB() *sql.DB {
	return s.db
}

// Path returns the configured database location.
func (s *DB) Path() string {
	return s.cfg.Path
}

// Close closes the database connection.
func (s *DB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
