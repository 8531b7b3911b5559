package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/dbx"
	"github.com/HazimBhatt/sharefolio/internal/logging"
	"github.com/HazimBhatt/sharefolio/internal/metrics"
	"github.com/HazimBhatt/sharefolio/internal/server/auth"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/repomanager"
	"github.com/HazimBhatt/sharefolio/internal/validation"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// reservedSubdomains collide with the app's own hostnames and routes.
var reservedSubdomains = map[string]struct{}{
	"www": {}, "api": {}, "app": {}, "admin": {}, "dashboard": {},
	"auth": {}, "login": {}, "signup": {}, "mail": {}, "static": {},
	"assets": {}, "cdn": {}, "media": {}, "help": {}, "support": {},
}

// CreatePortfolioInput describes a new portfolio.
type CreatePortfolioInput struct {
	Subdomain string          `json:"subdomain" validate:"required,subdomain"`
	Content   json.RawMessage `json:"content"`
	Publish   bool            `json:"publish"`
}

// PortfolioService implements the public and owner-scoped portfolio
// operations. Owner-scoped calls never distinguish "missing" from "not
// yours": both are common.ErrNotFoundOrForbidden.
type PortfolioService struct {
	tx          dbx.TxManager
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewPortfolioService(tx dbx.TxManager, rm repomanager.RepositoryManager, logger logging.Logger) *PortfolioService {
	return &PortfolioService{
		tx:          tx,
		repomanager: rm,
		logger:      logger.With("module", "portfolio_service"),
	}
}

// GetPublic returns the published portfolio at subdomain and counts the view.
func (s *PortfolioService) GetPublic(ctx context.Context, subdomain string) (*models.Portfolio, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if subdomain == "" {
		return nil, common.ErrorNotFound
	}

	p, err := s.repomanager.Portfolios(s.tx.Conn()).IncrementViews(ctx, subdomain)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "increment views", err)
	}

	metrics.PortfolioViews.Inc()
	return p, nil
}

// ListOwned returns the caller's portfolios, newest first.
func (s *PortfolioService) ListOwned(ctx context.Context, id auth.Identity) ([]*models.Portfolio, error) {
	list, err := s.repomanager.Portfolios(s.tx.Conn()).ListByOwner(ctx, id.UserID)
	if err != nil {
		return nil, s.internal(ctx, "list portfolios", err)
	}
	if list == nil {
		list = []*models.Portfolio{}
	}
	return list, nil
}

// Create spends one of the caller's tokens and creates the portfolio. Both
// happen in one transaction.
func (s *PortfolioService) Create(ctx context.Context, id auth.Identity, in CreatePortfolioInput) (*models.Portfolio, error) {
	in.Subdomain = strings.ToLower(strings.TrimSpace(in.Subdomain))

	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}
	if _, ok := reservedSubdomains[in.Subdomain]; ok {
		return nil, common.NewValidationError("subdomain is reserved")
	}
	if len(in.Content) > 0 && !json.Valid(in.Content) {
		return nil, common.NewValidationError("content must be valid JSON")
	}

	var created *models.Portfolio
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).ConsumeToken(ctx, id.UserID); err != nil {
			return err
		}

		p, err := s.repomanager.Portfolios(tx).Create(ctx, &models.Portfolio{
			UserID:      id.UserID,
			Subdomain:   in.Subdomain,
			IsPublished: in.Publish,
			Content:     []byte(in.Content),
		})
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, common.ErrInsufficientTokens), errors.Is(err, common.ErrSubdomainTaken):
		return nil, err
	case errors.Is(err, common.ErrorNotFound):
		// The session outlived its account.
		return nil, common.ErrorUnauthorized
	default:
		return nil, s.internal(ctx, "create portfolio", err)
	}

	s.logger.Info(ctx, "portfolio created", "portfolio_id", created.ID, "user_id", id.UserID)
	return created, nil
}

// SetPublished publishes or unpublishes one of the caller's portfolios.
func (s *PortfolioService) SetPublished(ctx context.Context, id auth.Identity, portfolioID string, published bool) (*models.Portfolio, error) {
	if _, err := uuid.Parse(portfolioID); err != nil {
		return nil, common.ErrNotFoundOrForbidden
	}

	p, err := s.repomanager.Portfolios(s.tx.Conn()).SetPublishedOwned(ctx, portfolioID, id.UserID, published)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotFoundOrForbidden
		}
		return nil, s.internal(ctx, "set published", err)
	}
	return p, nil
}

// DeleteOwned removes one of the caller's portfolios and refunds its token.
// The delete and the refund commit together.
func (s *PortfolioService) DeleteOwned(ctx context.Context, id auth.Identity, portfolioID string) error {
	if _, err := uuid.Parse(portfolioID); err != nil {
		return common.ErrNotFoundOrForbidden
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Portfolios(tx).DeleteOwned(ctx, portfolioID, id.UserID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNotFoundOrForbidden
			}
			return err
		}
		return s.repomanager.Users(tx).AdjustTokenBalance(ctx, id.UserID, 1)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFoundOrForbidden) {
			return err
		}
		return s.internal(ctx, "delete portfolio", err)
	}

	s.logger.Info(ctx, "portfolio deleted", "portfolio_id", portfolioID, "user_id", id.UserID)
	return nil
}

func (s *PortfolioService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, op+" failed", "error", err)
	return fmt.Errorf("%s: %w", op, common.ErrorInternal)
}
