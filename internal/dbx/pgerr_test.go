package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	name, ok := IsUniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", name)

	_, ok = IsUniqueViolation(errors.New("plain"))
	assert.False(t, ok)

	_, ok = IsUniqueViolation(&pgconn.PgError{Code: "23514"})
	assert.False(t, ok)
}

func TestIsCheckViolation(t *testing.T) {
	assert.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, IsCheckViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsCheckViolation(nil))
}
