// Package db provides the on-device storage layer for Arcana.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	apperrors "github.com/arcanahq/arcana/internal/errors"
)

// DB wraps the sql.DB with Arcana-specific configuration.
type DB struct {
	*sql.DB
}

// Open opens the Arcana SQLite database, creating the data directory, the
// database file and the two tables if absent. It is safe to call on every
// startup. Failures are reported as STORAGE_UNAVAILABLE; callers are
// expected to fall back to memory-only operation for the session.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "failed to create data directory", err)
	}

	dbPath := filepath.Join(dataDir, "arcana.db")

	// Pure Go driver, no CGO
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "failed to open database", err)
	}

	// SQLite doesn't support multiple writers
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		sqlDB.Close()
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "failed to enable WAL mode", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		sqlDB.Close()
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "failed to enable foreign keys", err)
	}

	db := &DB{sqlDB}
	if err := db.createSchema(); err != nil {
		sqlDB.Close()
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "failed to create schema", err)
	}

	return db, nil
}

// createSchema creates the two logical tables. There is no migration logic
// beyond this: missing settings fields are defaulted at read time.
func (db *DB) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cards (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT 'other',
		tags TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS settings (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
