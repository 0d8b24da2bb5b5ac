// Package utils provides the password hashing helpers used by the auth
// service.
package utils

import "golang.org/x/crypto/bcrypt"

// BcryptHasher is the one-way hash verifier for local credentials.
// Cost zero falls back to the bcrypt default.
type BcryptHasher struct{ Cost int }

// Hash returns the bcrypt hash of a plaintext password.
func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify safely compares a bcrypt hash against a plaintext password.
func (h BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
