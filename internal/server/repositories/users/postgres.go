package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/dbx"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/goccy/go-json"
)

const userColumns = `id, name, email, password_hash, token_balance, payment_history,
		subscription_plan, subscription_active, subscription_expires_at, email_verified,
		reset_code, reset_code_expires_at, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	payments, err := json.Marshal(nonNilPayments(user.PaymentHistory))
	if err != nil {
		return nil, fmt.Errorf("encode payment history: %w", err)
	}

	query :=
		`INSERT INTO users (name, email, password_hash, token_balance, payment_history,
		     subscription_plan, subscription_active, email_verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.TokenBalance, payments,
		string(user.Subscription.Plan), user.Subscription.Active, user.EmailVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if _, ok := dbx.IsUniqueViolation(err); ok {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) SetResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	query :=
		`UPDATE users SET reset_code = $2, reset_code_expires_at = $3, updated_at = now()
		 WHERE id = $1
		 `
	return r.execOne(ctx, common.ErrorNotFound, query, userID, code, expiresAt)
}

func (r *PostgresRepository) ConsumeResetCode(ctx context.Context, userID, code, passwordHash string, now time.Time) error {
	query :=
		`UPDATE users SET password_hash = $4, reset_code = NULL, reset_code_expires_at = NULL, updated_at = now()
		 WHERE id = $1 AND reset_code = $2 AND reset_code_expires_at > $3
		 `
	return r.execOne(ctx, common.ErrInvalidOrExpiredCode, query, userID, code, now, passwordHash)
}

func (r *PostgresRepository) AdjustTokenBalance(ctx context.Context, userID string, delta int) error {
	query :=
		`UPDATE users SET token_balance = token_balance + $2, updated_at = now()
		 WHERE id = $1
		 `
	err := r.execOne(ctx, common.ErrorNotFound, query, userID, delta)
	if err != nil && dbx.IsCheckViolation(err) {
		return common.ErrInsufficientTokens
	}
	return err
}

func (r *PostgresRepository) ConsumeToken(ctx context.Context, userID string) error {
	query :=
		`UPDATE users SET token_balance = token_balance - 1, updated_at = now()
		 WHERE id = $1 AND token_balance > 0
		 `
	return r.execOne(ctx, common.ErrInsufficientTokens, query, userID)
}

// execOne runs a single-row write and maps "nothing updated" to none.
func (r *PostgresRepository) execOne(ctx context.Context, none error, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return none
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		u          models.User
		payments   []byte
		plan       string
		subExpires sql.NullTime
		resetCode  sql.NullString
		resetExp   sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.TokenBalance, &payments,
		&plan, &u.Subscription.Active, &subExpires, &u.EmailVerified,
		&resetCode, &resetExp, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(payments) > 0 {
		if err := json.Unmarshal(payments, &u.PaymentHistory); err != nil {
			return nil, fmt.Errorf("decode payment history: %w", err)
		}
	}
	u.Subscription.Plan = models.Plan(plan)
	if subExpires.Valid {
		t := subExpires.Time
		u.Subscription.ExpiresAt = &t
	}
	if resetCode.Valid && resetExp.Valid {
		code, t := resetCode.String, resetExp.Time
		u.ResetCode = &code
		u.ResetCodeExpiresAt = &t
	}

	return &u, nil
}

func nonNilPayments(p []models.Payment) []models.Payment {
	if p == nil {
		return []models.Payment{}
	}
	return p
}
