package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"contact-book/models"
)

const memberColumns = "member_id, email, password_hash, mobile, nickname, create_at"

// MemberStore is the persistence adapter for member rows.
type MemberStore struct {
	db *sqlx.DB
}

// NewMemberStore creates a member store over the shared DB handle.
func NewMemberStore(db *sqlx.DB) *MemberStore {
	return &MemberStore{db: db}
}

// GetByEmail returns the member with the given unique email,
// ErrNotFound when absent.
func (s *MemberStore) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := s.db.GetContext(ctx, &member,
		"SELECT "+memberColumns+" FROM members WHERE email = ?", email)
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// Get returns one member by primary key, ErrNotFound when absent.
func (s *MemberStore) Get(ctx context.Context, memberID int64) (*models.Member, error) {
	var member models.Member
	err := s.db.GetContext(ctx, &member,
		"SELECT "+memberColumns+" FROM members WHERE member_id = ?", memberID)
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// Create inserts a member with an already-hashed password and returns the
// stored row. ErrConstraint when the email is taken.
func (s *MemberStore) Create(ctx context.Context, email, passwordHash, nickname string, mobile *string) (*models.Member, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO members (email, password_hash, mobile, nickname, create_at) VALUES (?, ?, ?, ?, ?)",
		email, passwordHash, mobile, nickname, time.Now())
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Find returns member rows matching the filter.
func (s *MemberStore) Find(ctx context.Context, filter MemberFilter) ([]models.Member, error) {
	query := "SELECT " + memberColumns + " FROM members"
	where, args := filter.where()
	query += where + " ORDER BY member_id ASC"

	members := []models.Member{}
	if err := s.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, translate(err)
	}
	return members, nil
}
