package portfolios

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/dbx"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
)

const portfolioColumns = `id, user_id, subdomain, is_published, views, content, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (*models.Portfolio, error) {
	var (
		p       models.Portfolio
		content []byte
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Subdomain, &p.IsPublished, &p.Views, &content, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Content = content
	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Portfolio) (*models.Portfolio, error) {
	content := []byte(p.Content)
	if len(content) == 0 {
		content = []byte(`{}`)
	}

	query :=
		`INSERT INTO portfolios (user_id, subdomain, is_published, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING ` + portfolioColumns

	created, err := scanPortfolio(r.db.QueryRowContext(ctx, query, p.UserID, p.Subdomain, p.IsPublished, content))
	if err != nil {
		if _, ok := dbx.IsUniqueViolation(err); ok {
			return nil, common.ErrSubdomainTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, subdomain string) (*models.Portfolio, error) {
	query :=
		`UPDATE portfolios SET views = views + 1
		 WHERE subdomain = $1 AND is_published = TRUE
		 RETURNING ` + portfolioColumns

	p, err := scanPortfolio(r.db.QueryRowContext(ctx, query, subdomain))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	query :=
		`SELECT ` + portfolioColumns + ` FROM portfolios
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Portfolio, 0)
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	query := `DELETE FROM portfolios WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetPublishedOwned(ctx context.Context, id, userID string, published bool) (*models.Portfolio, error) {
	query :=
		`UPDATE portfolios SET is_published = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + portfolioColumns

	p, err := scanPortfolio(r.db.QueryRowContext(ctx, query, id, userID, published))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}
