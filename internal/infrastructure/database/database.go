package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Config holds database connection settings.
type Config struct {
	Path        string
	WALMode     bool
	BusyTimeout int // seconds
}

// DB wraps sql.DB with templatecore-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// New opens the SQLite database at the configured path, creating the
// parent directory if needed, and verifies connectivity.
func New(cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." && dir != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := buildDSN(cfg)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn under concurrent writes.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{DB: db, path: cfg.Path}, nil
}

func buildDSN(cfg Config) string {
	dsn := cfg.Path + "?_foreign_keys=on"
	if cfg.WALMode {
		dsn += "&_journal_mode=WAL"
	}
	if cfg.BusyTimeout > 0 {
		dsn += fmt.Sprintf("&_busy_timeout=%d", cfg.BusyTimeout*1000)
	}
	return dsn
}

// Path returns the filesystem path of the database file.
func (d *DB) Path() string {
	return d.path
}

// HealthCheck verifies the database connection is alive.
func (d *DB) HealthCheck(ctx context.Context) error {
	if err := d.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	return nil
}
