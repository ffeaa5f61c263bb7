package models

import "time"

// Contact represents one address-book entry.
// ab_id is an auto-increment primary key, so insertion order is
// monotonically increasing — cursor pagination relies on that.
type Contact struct {
	AbID      int64      `json:"ab_id" db:"ab_id"`
	Name      string     `json:"name" db:"name"`
	Email     string     `json:"email" db:"email"`
	Mobile    string     `json:"mobile" db:"mobile"`
	Birthday  *time.Time `json:"birthday" db:"birthday"` // null when not on record
	Address   string     `json:"address" db:"address"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// CreateContactRequest is the POST /api/contacts body.
// Birthday stays a string here; the validation layer normalizes it
// (empty -> null, otherwise strict YYYY-MM-DD).
type CreateContactRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
	Birthday string `json:"birthday"`
}

// DeletedContact is the payload returned after a successful delete.
type DeletedContact struct {
	AbID int64  `json:"ab_id"`
	Name string `json:"name"`
}
