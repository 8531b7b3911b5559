package memory

import (
	"context"
	"sort"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/google/uuid"
)

// PortfoliosRepository implements portfolios.Repository over a Store.
type PortfoliosRepository struct {
	s *Store
}

func NewPortfoliosRepository(s *Store) *PortfoliosRepository {
	return &PortfoliosRepository{s: s}
}

func (r *PortfoliosRepository) Create(ctx context.Context, p *models.Portfolio) (*models.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.portfolios {
		if existing.Subdomain == p.Subdomain {
			return nil, common.ErrSubdomainTaken
		}
	}

	c := clonePortfolio(p)
	now := r.s.now()
	c.ID = uuid.NewString()
	c.Views = 0
	c.CreatedAt = now
	c.UpdatedAt = now
	if len(c.Content) == 0 {
		c.Content = []byte(`{}`)
	}

	id := c.ID
	r.s.portfolios[id] = c
	r.s.onRollback(ctx, func() { delete(r.s.portfolios, id) })
	return clonePortfolio(c), nil
}

func (r *PortfoliosRepository) IncrementViews(ctx context.Context, subdomain string) (*models.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.portfolios {
		if p.Subdomain == subdomain && p.IsPublished {
			p.Views++
			r.s.onRollback(ctx, func() { p.Views-- })
			return clonePortfolio(p), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *PortfoliosRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*models.Portfolio, 0)
	for _, p := range r.s.portfolios {
		if p.UserID == userID {
			result = append(result, clonePortfolio(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *PortfoliosRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.portfolios[id]
	if !ok || p.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.portfolios, id)
	r.s.onRollback(ctx, func() { r.s.portfolios[id] = p })
	return nil
}

func (r *PortfoliosRepository) SetPublishedOwned(ctx context.Context, id, userID string, published bool) (*models.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.portfolios[id]
	if !ok || p.UserID != userID {
		return nil, common.ErrorNotFound
	}
	prev := p.IsPublished
	p.IsPublished = published
	p.UpdatedAt = r.s.now()
	r.s.onRollback(ctx, func() {
		if p.IsPublished == published {
			p.IsPublished = prev
		}
	})
	return clonePortfolio(p), nil
}
