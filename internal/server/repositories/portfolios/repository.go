// Package portfolios contains the portfolio repository contract and its
// PostgreSQL implementation.
package portfolios

import (
	"context"

	"github.com/HazimBhatt/sharefolio/internal/server/models"
)

// Repository persists portfolios. Owner-scoped methods match on both the
// portfolio id and the owner id, and return common.ErrorNotFound when no row
// matches, whether the portfolio is missing or owned by someone else.
type Repository interface {
	// Create inserts p and fills its ID and timestamps. A taken subdomain
	// yields common.ErrSubdomainTaken.
	Create(ctx context.Context, p *models.Portfolio) (*models.Portfolio, error)

	// IncrementViews bumps the view counter of the published portfolio with
	// the given subdomain and returns it with the new count.
	IncrementViews(ctx context.Context, subdomain string) (*models.Portfolio, error)

	// ListByOwner returns the owner's portfolios, newest first.
	ListByOwner(ctx context.Context, userID string) ([]*models.Portfolio, error)

	DeleteOwned(ctx context.Context, id, userID string) error
	SetPublishedOwned(ctx context.Context, id, userID string, published bool) (*models.Portfolio, error)
}
