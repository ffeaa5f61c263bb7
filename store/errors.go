package store

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a unique-key lookup targets a missing row.
	ErrNotFound = errors.New("store: row not found")
	// ErrConstraint is returned when a uniqueness or foreign-key constraint
	// is violated on write.
	ErrConstraint = errors.New("store: constraint violation")
)

// translate maps driver-level errors onto the store taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrConstraint
		}
	}
	return err
}
