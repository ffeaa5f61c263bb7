package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"contact-book/models"
)

var (
	// ErrInvalidToken covers malformed tokens and failed signature checks.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrExpiredToken is returned for well-formed tokens past their expiry.
	ErrExpiredToken = errors.New("auth: expired token")
)

// Claims is the JWT payload: member identity, no server-side lifecycle.
type Claims struct {
	MemberID int64   `json:"member_id"`
	Email    string  `json:"email"`
	Nickname string  `json:"nickname"`
	Mobile   *string `json:"mobile"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies member tokens with a fixed server secret
// and expiry, both set once at startup.
type TokenIssuer struct {
	secret  []byte
	expires time.Duration
}

// NewTokenIssuer creates a token issuer.
func NewTokenIssuer(secret string, expires time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expires: expires}
}

// Sign issues an HS256 token carrying the member's identity.
func (t *TokenIssuer) Sign(member models.Member) (string, error) {
	now := time.Now()
	claims := &Claims{
		MemberID: member.MemberID,
		Email:    member.Email,
		Nickname: member.Nickname,
		Mobile:   member.Mobile,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expires)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token. Expired tokens yield
// ErrExpiredToken; anything else wrong (bad signature, malformed input,
// unexpected algorithm) yields ErrInvalidToken. Callers decide whether an
// absent token means anonymous; this layer only judges presented ones.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
