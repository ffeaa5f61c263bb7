package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"contact-book/models"
)

const userColumns = "id, first_name, last_name, email"

// UserStore is the persistence adapter for the demo user entity.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore creates a user store over the shared DB handle.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// List returns all demo users, newest first.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users,
		"SELECT "+userColumns+" FROM users ORDER BY id DESC")
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// Get returns one user by primary key, ErrNotFound when absent.
func (s *UserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Create inserts a user and returns the stored row.
func (s *UserStore) Create(ctx context.Context, firstName, lastName, email string) (*models.User, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email) VALUES (?, ?, ?)",
		firstName, lastName, email)
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Update overwrites non-empty fields and returns the updated row.
func (s *UserStore) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET first_name = ?, last_name = ?, email = ? WHERE id = ?",
		user.FirstName, user.LastName, user.Email, id)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// Delete removes a user and returns the deleted row,
// ErrNotFound when the key is absent.
func (s *UserStore) Delete(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return nil, translate(err)
	}
	return user, nil
}
