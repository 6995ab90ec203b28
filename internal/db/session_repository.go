package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kylodelgado/nychapp/internal/models"
)

// LastSessionStore defines the interface for the single-slot last-session
// record. There is no history: Save evicts whatever was stored before, and
// MostRecent returns nil when no lookup has succeeded yet.
type LastSessionStore interface {
	Save(record *models.LastSessionRecord) error
	MostRecent() (*models.LastSessionRecord, error)
	Clear() error
}

// sessionRepository implements LastSessionStore on SQLite
type sessionRepository struct {
	db *sql.DB
}

// NewLastSessionStore creates a new LastSessionStore
func NewLastSessionStore(db *sql.DB) LastSessionStore {
	return &sessionRepository{db: db}
}

// Save replaces any stored record with the given one. The replacement is
// delete-then-insert inside one transaction, keeping the table single-slot
// even if an earlier write left more than one row behind.
func (r *sessionRepository) Save(record *models.LastSessionRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM last_session`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO last_session (phone_number, customer_id, customer_name, timestamp)
		VALUES (?, ?, ?, ?)
	`,
		record.PhoneNumber,
		record.CustomerID,
		record.CustomerName,
		record.Timestamp.Unix(),
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to save session: %w", err)
	}

	return tx.Commit()
}

// MostRecent returns the stored record, or nil when none exists.
func (r *sessionRepository) MostRecent() (*models.LastSessionRecord, error) {
	row := r.db.QueryRow(`
		SELECT phone_number, customer_id, customer_name, timestamp
		FROM last_session
		ORDER BY timestamp DESC
		LIMIT 1
	`)

	record := &models.LastSessionRecord{}
	var ts int64
	err := row.Scan(
		&record.PhoneNumber,
		&record.CustomerID,
		&record.CustomerName,
		&ts,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	record.Timestamp = time.Unix(ts, 0).UTC()
	return record, nil
}

// Clear deletes the stored record. Clearing an empty store is not an error.
func (r *sessionRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM last_session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
