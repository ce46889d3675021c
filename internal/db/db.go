// Package db provides SQLite database access for spoor.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection pool.
type DB struct {
	*sql.DB
	path   string
	logger zerolog.Logger
}

// Options configures the database connection.
type Options struct {
	// Path is the SQLite database file path.
	Path string

	// BusyTimeoutMs is how long to wait for a locked database.
	BusyTimeoutMs int

	// Logger receives database diagnostics.
	Logger zerolog.Logger
}

// Open opens (creating if needed) the spoor database and ensures the
// schema exists.
func Open(ctx context.Context, opts Options) (*DB, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if opts.BusyTimeoutMs <= 0 {
		opts.BusyTimeoutMs = 5000
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf(
		"%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)",
		opts.Path, opts.BusyTimeoutMs,
	)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB, path: opts.Path, logger: opts.Logger}
	if err := db.ensureSchema(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

func (db *DB) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS hunts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			terrain TEXT,
			victory_conditions TEXT,
			failure_modes TEXT,
			duration TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			start_date TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hunt_nodes (
			id TEXT PRIMARY KEY,
			hunt_id TEXT NOT NULL REFERENCES hunts(id) ON DELETE CASCADE,
			x REAL NOT NULL,
			y REAL NOT NULL,
			width REAL NOT NULL DEFAULT 200,
			height REAL NOT NULL DEFAULT 50,
			text TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'note',
			connections_json TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS hunt_nodes_hunt_idx ON hunt_nodes(hunt_id)`,
		`CREATE TABLE IF NOT EXISTS hunt_logs (
			id TEXT PRIMARY KEY,
			hunt_id TEXT NOT NULL REFERENCES hunts(id) ON DELETE CASCADE,
			week_number INTEGER,
			entry TEXT NOT NULL,
			breakthroughs_json TEXT,
			failed_approaches_json TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS hunt_logs_hunt_idx ON hunt_logs(hunt_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Transaction runs fn inside a transaction, committing on nil error and
// rolling back otherwise.
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Warn().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
