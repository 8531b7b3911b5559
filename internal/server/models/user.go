// Package models holds the persisted domain records and their client-facing
// projections.
package models

import "time"

// Plan is a subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
	PlanPro     Plan = "pro"
)

// PaymentStatus is the lifecycle state of a recorded payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is one entry of a user's purchase history. Entries are written by
// the billing integration and only read here.
type Payment struct {
	ID            string        `json:"id"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Method        string        `json:"method"`
	Tokens        int           `json:"tokens"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Subscription describes the user's plan.
type Subscription struct {
	Plan      Plan       `json:"plan"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// User is an account record.
//
// ResetCode and ResetCodeExpiresAt are either both set or both nil; the
// schema enforces the pairing. TokenBalance never goes negative.
type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	TokenBalance       int
	PaymentHistory     []Payment
	Subscription       Subscription
	EmailVerified      bool
	ResetCode          *string
	ResetCodeExpiresAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Profile is the sanitized view of a User returned to clients: no password
// hash and no reset code.
type Profile struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	TokenBalance   int          `json:"tokenBalance"`
	Subscription   Subscription `json:"subscription"`
	PaymentHistory []Payment    `json:"paymentHistory"`
	EmailVerified  bool         `json:"emailVerified"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// Profile returns the client-facing projection of u.
func (u *User) Profile() *Profile {
	payments := u.PaymentHistory
	if payments == nil {
		payments = []Payment{}
	}
	return &Profile{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		TokenBalance:   u.TokenBalance,
		Subscription:   u.Subscription,
		PaymentHistory: payments,
		EmailVerified:  u.EmailVerified,
		CreatedAt:      u.CreatedAt,
	}
}

// ResetCodeValid reports whether code matches the stored reset code and the
// code has not expired at now. The comparison is constant-time.
func (u *User) ResetCodeValid(code string, now time.Time) bool {
	if u.ResetCode == nil || u.ResetCodeExpiresAt == nil || code == "" {
		return false
	}
	if !now.Before(*u.ResetCodeExpiresAt) {
		return false
	}
	return constantTimeEqual(*u.ResetCode, code)
}
