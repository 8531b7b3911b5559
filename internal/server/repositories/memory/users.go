package memory

import (
	"context"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/google/uuid"
)

// UsersRepository implements users.Repository over a Store.
type UsersRepository struct {
	s *Store
}

func NewUsersRepository(s *Store) *UsersRepository {
	return &UsersRepository{s: s}
}

func (r *UsersRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, common.ErrEmailTaken
		}
	}

	now := r.s.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.PaymentHistory == nil {
		user.PaymentHistory = []models.Payment{}
	}

	id := user.ID
	r.s.users[id] = cloneUser(user)
	r.s.onRollback(ctx, func() { delete(r.s.users, id) })
	return user, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *UsersRepository) SetResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	return r.update(ctx, userID, common.ErrorNotFound, func(u *models.User) bool {
		u.ResetCode = &code
		u.ResetCodeExpiresAt = &expiresAt
		return true
	})
}

func (r *UsersRepository) ConsumeResetCode(ctx context.Context, userID, code, passwordHash string, now time.Time) error {
	return r.update(ctx, userID, common.ErrInvalidOrExpiredCode, func(u *models.User) bool {
		if u.ResetCode == nil || *u.ResetCode != code || !now.Before(*u.ResetCodeExpiresAt) {
			return false
		}
		u.PasswordHash = passwordHash
		u.ResetCode = nil
		u.ResetCodeExpiresAt = nil
		return true
	})
}

func (r *UsersRepository) AdjustTokenBalance(ctx context.Context, userID string, delta int) error {
	var negative bool
	err := r.update(ctx, userID, common.ErrorNotFound, func(u *models.User) bool {
		if u.TokenBalance+delta < 0 {
			negative = true
			return false
		}
		u.TokenBalance += delta
		return true
	})
	if negative {
		return common.ErrInsufficientTokens
	}
	return err
}

func (r *UsersRepository) ConsumeToken(ctx context.Context, userID string) error {
	return r.update(ctx, userID, common.ErrInsufficientTokens, func(u *models.User) bool {
		if u.TokenBalance <= 0 {
			return false
		}
		u.TokenBalance--
		return true
	})
}

// update applies fn to the stored user. fn returns false to reject the
// change, in which case rejected is returned; a missing user also returns
// rejected, matching the zero-rows behaviour of the SQL implementation.
func (r *UsersRepository) update(ctx context.Context, userID string, rejected error, fn func(u *models.User) bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return rejected
	}

	c := cloneUser(u)
	if !fn(c) {
		return rejected
	}
	c.UpdatedAt = r.s.now()
	r.s.users[userID] = c
	r.s.onRollback(ctx, func() {
		if cur, ok := r.s.users[userID]; ok {
			r.s.users[userID] = revertUser(cur, u, c)
		}
	})
	return nil
}
