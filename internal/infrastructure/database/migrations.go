package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// MigrationsFS is the filesystem containing migration files. It is set
// by the migrations package's init so that database does not import it
// directly.
var MigrationsFS fs.FS

// MigrationsDir is the directory within MigrationsFS containing the
// migration files.
var MigrationsDir = "."

// Migrate applies all pending up migrations in filename order.
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql and each
// is applied inside its own transaction, recorded in schema_migrations.
func (d *DB) Migrate(ctx context.Context) error {
	if MigrationsFS == nil {
		return fmt.Errorf("migrations filesystem not initialised")
	}

	if _, err := d.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	applied, err := d.appliedVersions(ctx)
	if err != nil {
		return err
	}

	files, err := migrationFiles(".up.sql")
	if err != nil {
		return err
	}

	for _, name := range files {
		version := strings.TrimSuffix(name, ".up.sql")
		if applied[version] {
			continue
		}
		if err := d.applyMigration(ctx, name, version); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
	}

	return nil
}

// MigrateDown rolls back the most recently applied migration.
func (d *DB) MigrateDown(ctx context.Context) error {
	var version string
	err := d.QueryRowContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`,
	).Scan(&version)
	if err != nil {
		return fmt.Errorf("finding latest migration: %w", err)
	}

	data, err := fs.ReadFile(MigrationsFS, migrationPath(version+".down.sql"))
	if err != nil {
		return fmt.Errorf("reading down migration for %s: %w", version, err)
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("executing down migration %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM schema_migrations WHERE version = ?`, version); err != nil {
		return fmt.Errorf("removing migration record %s: %w", version, err)
	}

	return tx.Commit()
}

func (d *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := d.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (d *DB) applyMigration(ctx context.Context, name, version string) error {
	data, err := fs.ReadFile(MigrationsFS, migrationPath(name))
	if err != nil {
		return fmt.Errorf("reading migration: %w", err)
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`,
		version); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	return tx.Commit()
}

func migrationFiles(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func migrationPath(name string) string {
	if MigrationsDir == "." || MigrationsDir == "" {
		return name
	}
	return MigrationsDir + "/" + name
}
