package auth

import (
	"testing"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	iss := NewSessionIssuer("super-secret", 30*time.Minute)

	tok, expires, err := iss.Issue("user-123", "ada@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if d := time.Until(expires); d < 29*time.Minute || d > 30*time.Minute {
		t.Fatalf("unexpected expiry distance %v", d)
	}

	id, err := iss.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id.UserID != "user-123" || id.Email != "ada@example.com" {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	iss := NewSessionIssuer("secret", 30*time.Minute)
	iss.now = fixedClock(start)

	tok, _, err := iss.Issue("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	iss.now = fixedClock(start.Add(29 * time.Minute))
	if _, err := iss.Verify(tok); err != nil {
		t.Fatalf("token should still be valid at 29m: %v", err)
	}

	iss.now = fixedClock(start.Add(31 * time.Minute))
	if _, err := iss.Verify(tok); err != common.ErrTokenExpired {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewSessionIssuer("right-secret", time.Hour).Issue("u2", "u2@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewSessionIssuer("wrong-secret", time.Hour).Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u3",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := NewSessionIssuer("secret", time.Hour).Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken for HS512, got %v", err)
	}
}

func TestVerify_MissingUserIDOrExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	iss := NewSessionIssuer("secret", time.Hour)

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	if _, err := iss.Verify(noUser); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken without userId, got %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u4"}).SignedString(secret)
	if _, err := iss.Verify(noExp); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken without exp, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	iss := NewSessionIssuer("secret", time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := iss.Verify(tok); err != common.ErrInvalidToken {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewSessionIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()

	if got := NewSessionIssuer("s", 0).TTL(); got != common.DefaultSessionTTL {
		t.Fatalf("TTL() = %v, want %v", got, common.DefaultSessionTTL)
	}
	if got := NewSessionIssuer("s", time.Hour).TTL(); got != time.Hour {
		t.Fatalf("TTL() = %v, want 1h", got)
	}
}
