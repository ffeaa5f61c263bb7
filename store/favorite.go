package store

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"contact-book/models"
)

// FavoriteStore is the persistence adapter for the member/contact join table.
type FavoriteStore struct {
	db *sqlx.DB
}

// NewFavoriteStore creates a favorite store over the shared DB handle.
func NewFavoriteStore(db *sqlx.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Add links a member to a contact. The contact-existence check and the
// insert run in one transaction; a failure on either side rolls back both.
// ErrNotFound when the contact is absent, ErrConstraint when the favorite
// already exists.
func (s *FavoriteStore) Add(ctx context.Context, memberID, abID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists, "SELECT 1 FROM contacts WHERE ab_id = ?", abID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return translate(err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO favorites (member_id, ab_id) VALUES (?, ?)", memberID, abID)
	if err != nil {
		return translate(err)
	}

	return tx.Commit()
}

// Remove unlinks a member from a contact, ErrNotFound when no such link.
func (s *FavoriteStore) Remove(ctx context.Context, memberID, abID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE member_id = ? AND ab_id = ?", memberID, abID)
	if err != nil {
		return translate(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByMember returns a member's favorites with the contact rows included.
func (s *FavoriteStore) ListByMember(ctx context.Context, memberID int64) ([]models.FavoriteContact, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT f.member_id, c.ab_id, c.name, c.email, c.mobile, c.birthday, c.address, c.created_at
		FROM favorites f
		JOIN contacts c ON c.ab_id = f.ab_id
		WHERE f.member_id = ?
		ORDER BY c.ab_id ASC`, memberID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	favorites := []models.FavoriteContact{}
	for rows.Next() {
		var fc models.FavoriteContact
		err := rows.Scan(&fc.MemberID,
			&fc.Contact.AbID, &fc.Contact.Name, &fc.Contact.Email, &fc.Contact.Mobile,
			&fc.Contact.Birthday, &fc.Contact.Address, &fc.Contact.CreatedAt)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fc)
	}
	return favorites, rows.Err()
}
