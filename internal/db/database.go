// Package db holds the app's local persistence: a small SQLite database
// whose only content is the single-slot last-session record.
package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Database wraps the local SQLite store.
type Database struct {
	db *sql.DB
}

// NewDatabase opens (or creates) the SQLite database at the given path.
func NewDatabase(dbPath string) (*Database, error) {
	if dbPath == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Verify we can actually connect to the database
	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("create tables failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS last_session (
			phone_number TEXT NOT NULL,
			customer_id INTEGER NOT NULL,
			customer_name TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		)
	`)
	return err
}

// Close closes the underlying database handle.
func (d *Database) Close() error {
	if d == nil {
		return errors.New("database is nil")
	}

	if d.db == nil {
		return errors.New("database already closed")
	}

	err := d.db.Close()
	d.db = nil
	return err
}

// GetDB exposes the raw handle for repository construction.
func (d *Database) GetDB() *sql.DB {
	if d == nil {
		return nil
	}
	return d.db
}
