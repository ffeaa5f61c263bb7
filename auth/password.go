// Package auth holds credential handling: bcrypt password hashing and
// JWT issuance/verification. Plaintext passwords and stored hashes must
// never be logged or echoed to clients.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt (salted,
// irreversible).
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword compares a submitted plaintext against the stored hash.
// bcrypt's comparison is constant-time with respect to the hash.
func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
