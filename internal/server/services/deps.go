// Package services contains the server's business logic. Services are
// transport-agnostic: they take plain inputs and an explicit auth.Identity,
// and return domain values or errors from the common taxonomy.
package services

import (
	"time"

	"github.com/HazimBhatt/sharefolio/internal/server/auth"
)

// SessionIssuer mints and verifies session tokens.
type SessionIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
	Verify(token string) (*auth.Identity, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
	CompareDummy(password string)
}
