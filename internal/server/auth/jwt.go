// Package auth issues and verifies session tokens, hashes passwords, and
// carries the authenticated identity through request contexts.
package auth

import (
	"errors"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload: the standard registered claims plus
// the user's id and email.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Identity is the authenticated caller decoded from a valid session token.
type Identity struct {
	UserID string
	Email  string
}

// SessionIssuer mints and verifies HS256 session tokens. Tokens are stateless;
// there is no revocation list, so a token stays valid until it expires.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer returns an issuer signing with secret and granting ttl. A
// non-positive ttl falls back to common.DefaultSessionTTL.
func NewSessionIssuer(secret string, ttl time.Duration) *SessionIssuer {
	if ttl <= 0 {
		ttl = common.DefaultSessionTTL
	}
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime granted to new tokens.
func (i *SessionIssuer) TTL() time.Duration { return i.ttl }

// Issue returns a signed token for the user and its expiry time.
func (i *SessionIssuer) Issue(userID, email string) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID: userID,
		Email:  email,
	})

	s, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return s, expires, nil
}

// Verify checks signature, algorithm and expiry. Expired tokens yield
// common.ErrTokenExpired; anything else wrong yields common.ErrInvalidToken.
func (i *SessionIssuer) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
