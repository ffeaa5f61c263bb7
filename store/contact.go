package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"contact-book/models"
)

const contactColumns = "ab_id, name, email, mobile, birthday, address, created_at"

// ContactStore is the persistence adapter for contact rows.
// It holds the process-wide sqlx handle created once at startup.
type ContactStore struct {
	db *sqlx.DB
}

// NewContactStore creates a contact store over the shared DB handle.
func NewContactStore(db *sqlx.DB) *ContactStore {
	return &ContactStore{db: db}
}

// ContactData carries the writable contact fields.
type ContactData struct {
	Name     string
	Email    string
	Mobile   string
	Address  string
	Birthday *time.Time
}

// Find returns contact rows matching the filter, ordered and bounded.
// limit <= 0 means no LIMIT; offset is ignored without a limit.
func (s *ContactStore) Find(ctx context.Context, filter ContactFilter, orders []Order, limit, offset int) ([]models.Contact, error) {
	query := "SELECT " + contactColumns + " FROM contacts"
	where, args := filter.where()
	query += where
	query += orderBy(orders, contactOrderColumns)
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	contacts := []models.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, translate(err)
	}
	return contacts, nil
}

// FindAfter returns up to limit rows with ab_id strictly greater than
// afterID, in primary-key order. This is the cursor-pagination query:
// ab_id is unique and monotonically increasing, so forward iteration
// stays stable even when earlier rows are deleted.
func (s *ContactStore) FindAfter(ctx context.Context, afterID int64, limit int) ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := s.db.SelectContext(ctx, &contacts,
		"SELECT "+contactColumns+" FROM contacts WHERE ab_id > ? ORDER BY ab_id ASC LIMIT ?",
		afterID, limit)
	if err != nil {
		return nil, translate(err)
	}
	return contacts, nil
}

// Get returns one contact by primary key, ErrNotFound when absent.
func (s *ContactStore) Get(ctx context.Context, abID int64) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.GetContext(ctx, &contact,
		"SELECT "+contactColumns+" FROM contacts WHERE ab_id = ?", abID)
	if err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

// Create inserts a contact and returns the stored row.
func (s *ContactStore) Create(ctx context.Context, data ContactData) (*models.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contacts (name, email, mobile, birthday, address, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		data.Name, data.Email, data.Mobile, data.Birthday, data.Address, time.Now())
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Update overwrites the writable fields of a contact and returns the
// updated row, ErrNotFound when the key is absent.
func (s *ContactStore) Update(ctx context.Context, abID int64, data ContactData) (*models.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE contacts SET name = ?, email = ?, mobile = ?, birthday = ?, address = ? WHERE ab_id = ?",
		data.Name, data.Email, data.Mobile, data.Birthday, data.Address, abID)
	if err != nil {
		return nil, translate(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, abID)
}

// Delete removes a contact and returns the deleted row,
// ErrNotFound when the key is absent (delete is not idempotent-silent).
func (s *ContactStore) Delete(ctx context.Context, abID int64) (*models.Contact, error) {
	contact, err := s.Get(ctx, abID)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE ab_id = ?", abID); err != nil {
		return nil, translate(err)
	}
	return contact, nil
}

// Count returns the number of rows matching the filter.
func (s *ContactStore) Count(ctx context.Context, filter ContactFilter) (int, error) {
	query := "SELECT COUNT(*) FROM contacts"
	where, args := filter.where()
	query += where

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, translate(err)
	}
	return count, nil
}

// ContactAggregate summarizes ab_id over a filtered set.
// Avg/Sum/Min/Max are nil for an empty set.
type ContactAggregate struct {
	Avg   *float64 `json:"avg"`
	Sum   *int64   `json:"sum"`
	Min   *int64   `json:"min"`
	Max   *int64   `json:"max"`
	Count int      `json:"count"`
}

// Aggregate computes avg/sum/min/max/count of ab_id under the filter.
func (s *ContactStore) Aggregate(ctx context.Context, filter ContactFilter) (*ContactAggregate, error) {
	query := "SELECT AVG(ab_id), SUM(ab_id), MIN(ab_id), MAX(ab_id), COUNT(ab_id) FROM contacts"
	where, args := filter.where()
	query += where

	var (
		avg           sql.NullFloat64
		sum, min, max sql.NullInt64
		count         int
	)
	row := s.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&avg, &sum, &min, &max, &count); err != nil {
		return nil, translate(err)
	}

	agg := &ContactAggregate{Count: count}
	if avg.Valid {
		agg.Avg = &avg.Float64
	}
	if sum.Valid {
		agg.Sum = &sum.Int64
	}
	if min.Valid {
		agg.Min = &min.Int64
	}
	if max.Valid {
		agg.Max = &max.Int64
	}
	return agg, nil
}
