// Package session holds server-side authentication state, keyed by a
// client-held session id and bound to a TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"contact-book/models"
)

// ErrNoSession is returned when a session id matches nothing, or the
// matched session has expired.
var ErrNoSession = errors.New("session: not found or expired")

// Member is the subset of a member row kept in the session document.
// The password hash is deliberately not representable here.
type Member struct {
	MemberID int64     `json:"member_id"`
	Email    string    `json:"email"`
	Nickname string    `json:"nickname"`
	Mobile   *string   `json:"mobile"`
	CreateAt time.Time `json:"create_at"`
}

// MemberFromModel builds the session view of a member row.
func MemberFromModel(m models.Member) Member {
	return Member{
		MemberID: m.MemberID,
		Email:    m.Email,
		Nickname: m.Nickname,
		Mobile:   m.Mobile,
		CreateAt: m.CreateAt,
	}
}

// document is the persisted session state. Member is nil for a session
// that exists but is not logged in.
type document struct {
	Member    *Member   `json:"member"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the session persistence contract. Mutations must complete
// their durable write before returning, so a handler that responds after
// SetMember/ClearMember cannot race the persisted state.
type Store interface {
	// Get returns the member stored on the session; nil member for an
	// anonymous session, ErrNoSession when the id matches nothing live.
	Get(ctx context.Context, sessionID string) (*Member, error)

	// SetMember durably records the member on the session, creating the
	// session if needed and refreshing its TTL.
	SetMember(ctx context.Context, sessionID string, member Member) error

	// ClearMember durably removes the member from the session, keeping
	// the session itself. ErrNoSession when the id matches nothing live.
	ClearMember(ctx context.Context, sessionID string) error

	// Destroy deletes the session document outright.
	Destroy(ctx context.Context, sessionID string) error
}

// NewSessionID generates a fresh session identifier for the cookie.
func NewSessionID() string {
	return uuid.New().String()
}
