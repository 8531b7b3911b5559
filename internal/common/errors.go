// Package common defines shared constants, sentinel errors and small helpers
// used across the Sharefolio server. Callers should use errors.Is to match
// the sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrSubdomainTaken = errors.New("subdomain already taken")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Credential errors. Both are deliberately indistinguishable to clients.
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired reset code")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Ownership-gated lookups collapse "missing" and "not yours" into one error.
	ErrNotFoundOrForbidden = errors.New("not found or forbidden")
	ErrInsufficientTokens  = errors.New("insufficient token balance")

	// Dependency failures.
	ErrMailDelivery       = errors.New("mail delivery failed")
	ErrMediaNotConfigured = errors.New("media provider not configured")
)

// ValidationError reports a rejected input. Its message is safe to return to
// clients; it matches ErrorValidation via errors.Is.
type ValidationError struct {
	Message string
}

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrorValidation }
