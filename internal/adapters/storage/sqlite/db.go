// Package sqlite implements the storage ports on a single SQLite database
// using the pure-Go modernc.org/sqlite driver. Aggregates are stored as JSON
// documents keyed by kind and id; events are stored as JSON envelopes with
// their stream position indexed for continuity checks.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jsamuelsen11/scorebook/internal/adapters/storage/sqlite/migrations"
	"github.com/jsamuelsen11/scorebook/internal/platform/storage/sqlitemigrate"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Compile-time check that DB implements ports.HealthChecker.
var _ ports.HealthChecker = (*DB)(nil)

const dsnOptions = "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

// DB owns the SQLite connection shared by every store in this package.
type DB struct {
	sql *sql.DB
}

// Open opens or creates the database at path and applies migrations.
// The path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + dsnOptions
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// Writers serialize on SQLite's lock anyway; one connection also keeps
	// an in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &DB{sql: sqlDB}, nil
}

// Close closes the connection. It is safe on a nil DB.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Name implements ports.HealthChecker.
func (d *DB) Name() string { return "sqlite" }

// HealthCheck pings the database.
func (d *DB) HealthCheck(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	default:
		return false
	}
}

func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}
