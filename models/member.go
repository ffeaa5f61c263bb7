package models

import "time"

// Member represents a registered member who can log in.
// PasswordHash is never serialized to clients.
type Member struct {
	MemberID     int64     `json:"member_id" db:"member_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Mobile       *string   `json:"mobile" db:"mobile"`
	Nickname     string    `json:"nickname" db:"nickname"`
	CreateAt     time.Time `json:"create_at" db:"create_at"`
}

// PublicMember is the client-facing view of a member (no password hash).
type PublicMember struct {
	MemberID int64     `json:"member_id"`
	Email    string    `json:"email"`
	Mobile   *string   `json:"mobile"`
	Nickname string    `json:"nickname"`
	CreateAt time.Time `json:"create_at"`
}

// Public strips the password hash from a member row.
func (m Member) Public() PublicMember {
	return PublicMember{
		MemberID: m.MemberID,
		Email:    m.Email,
		Mobile:   m.Mobile,
		Nickname: m.Nickname,
		CreateAt: m.CreateAt,
	}
}

// LoginRequest is the body for /api/login and /api/jwt-login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignupRequest is the body for /api/signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nickname string `json:"nickname" validate:"required,min=2"`
	Mobile   string `json:"mobile"`
}

// Favorite links a member to a contact (many-to-many join row).
type Favorite struct {
	MemberID int64 `json:"member_id" db:"member_id"`
	AbID     int64 `json:"ab_id" db:"ab_id"`
}

// FavoriteContact is a favorite row with the contact included.
type FavoriteContact struct {
	MemberID int64   `json:"member_id"`
	Contact  Contact `json:"contact"`
}
