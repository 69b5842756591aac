// Package database provides the SQLite connection and schema migration
// machinery for Device Template Core.
//
// Migrations are embedded SQL files applied in filename order and
// tracked in a schema_migrations table. The migrations package wires
// its embedded filesystem into MigrationsFS at init time.
package database
