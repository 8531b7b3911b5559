// Package memory is an in-process implementation of the user and portfolio
// repositories. It backs the "memory" DSN for local development and the
// service and transport tests. State is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/dbx"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
)

// Store holds all records. Every repository method takes mu for the duration
// of the call. WithTx serialises units of work; a failed unit undoes its own
// writes and leaves everything else in place.
type Store struct {
	mu         sync.Mutex
	txMu       sync.Mutex
	users      map[string]*models.User
	portfolios map[string]*models.Portfolio
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		portfolios: make(map[string]*models.Portfolio),
		now:        time.Now,
	}
}

// Conn returns nil: memory repositories ignore the handle they are bound to.
func (s *Store) Conn() dbx.DBTX { return nil }

type txKey struct{}

// journal collects the compensating actions of one unit of work.
type journal struct {
	store *Store
	undo  []func()
}

// WithTx runs fn exclusively against other units. Repository calls made with
// the context passed to fn belong to the unit: if fn returns an error or
// panics, those writes are undone in reverse order. Writes made with any
// other context are never touched. A nested call joins the enclosing unit.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) (err error) {
	if s.journal(ctx) != nil {
		return fn(ctx, nil)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{store: s}
	ctx = context.WithValue(ctx, txKey{}, j)

	defer func() {
		if p := recover(); p != nil {
			s.rollback(j)
			panic(p)
		}
		if err != nil {
			s.rollback(j)
		}
	}()

	return fn(ctx, nil)
}

func (s *Store) journal(ctx context.Context) *journal {
	j, _ := ctx.Value(txKey{}).(*journal)
	if j == nil || j.store != s {
		return nil
	}
	return j
}

// onRollback registers undo against the unit ctx belongs to, if any. Callers
// hold mu; undo runs with mu held.
func (s *Store) onRollback(ctx context.Context, undo func()) {
	if j := s.journal(ctx); j != nil {
		j.undo = append(j.undo, undo)
	}
}

func (s *Store) rollback(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// revertUser returns cur with the change from before to after taken back.
// The balance is reverted by its delta; other fields only when nobody has
// overwritten them since.
func revertUser(cur, before, after *models.User) *models.User {
	r := cloneUser(cur)
	r.TokenBalance += before.TokenBalance - after.TokenBalance
	if r.PasswordHash == after.PasswordHash {
		r.PasswordHash = before.PasswordHash
	}
	if sameString(r.ResetCode, after.ResetCode) && sameTime(r.ResetCodeExpiresAt, after.ResetCodeExpiresAt) {
		orig := cloneUser(before)
		r.ResetCode = orig.ResetCode
		r.ResetCodeExpiresAt = orig.ResetCodeExpiresAt
	}
	return r
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.PaymentHistory != nil {
		c.PaymentHistory = append([]models.Payment(nil), u.PaymentHistory...)
	}
	if u.ResetCode != nil {
		code := *u.ResetCode
		c.ResetCode = &code
	}
	if u.ResetCodeExpiresAt != nil {
		t := *u.ResetCodeExpiresAt
		c.ResetCodeExpiresAt = &t
	}
	if u.Subscription.ExpiresAt != nil {
		t := *u.Subscription.ExpiresAt
		c.Subscription.ExpiresAt = &t
	}
	return &c
}

func clonePortfolio(p *models.Portfolio) *models.Portfolio {
	c := *p
	if p.Content != nil {
		c.Content = append([]byte(nil), p.Content...)
	}
	return &c
}
