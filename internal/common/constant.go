package common

import "time"

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

const (
	// ResetCodeDigits is the length of a password-reset code.
	ResetCodeDigits = 6

	// InitialTokenBalance is credited to every new account.
	InitialTokenBalance = 1

	// DefaultSessionTTL and DefaultResetCodeTTL are the stock lifetimes.
	DefaultSessionTTL   = 30 * time.Minute
	DefaultResetCodeTTL = 10 * time.Minute
)
