// Package users contains the user repository contract and its PostgreSQL
// implementation.
package users

import (
	"context"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/server/models"
)

// Repository persists user accounts. Emails are stored and looked up in the
// normalized lowercase form; callers normalize before calling.
//
// Lookups and writes targeting a missing user return common.ErrorNotFound.
type Repository interface {
	// Create inserts user and fills its ID and timestamps. A duplicate email
	// yields common.ErrEmailTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SetResetCode stores code and its expiry, replacing any earlier code.
	SetResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error

	// ConsumeResetCode sets passwordHash and clears both reset fields, but only
	// while the stored code still equals code and is unexpired at now.
	// Otherwise it returns common.ErrInvalidOrExpiredCode.
	ConsumeResetCode(ctx context.Context, userID, code, passwordHash string, now time.Time) error

	// AdjustTokenBalance adds delta to the balance.
	AdjustTokenBalance(ctx context.Context, userID string, delta int) error

	// ConsumeToken takes one token if the balance is positive, otherwise it
	// returns common.ErrInsufficientTokens.
	ConsumeToken(ctx context.Context, userID string) error
}
