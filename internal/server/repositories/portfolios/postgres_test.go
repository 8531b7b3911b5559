package portfolios

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "user_id", "subdomain", "is_published", "views", "content", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`^INSERT INTO portfolios \(user_id, subdomain, is_published, content\)\s+VALUES \(\$1, \$2, \$3, \$4\)\s+RETURNING id, user_id`).
		WithArgs("u-1", "ada", false, []byte(`{}`)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p-1", "u-1", "ada", false, int64(0), []byte(`{}`), now, now))

	p, err := repo.Create(context.Background(), &models.Portfolio{UserID: "u-1", Subdomain: "ada"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.JSONEq(t, `{}`, string(p.Content))
}

func TestCreate_SubdomainTaken(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^INSERT INTO portfolios`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "portfolios_subdomain_key"})

	_, err := repo.Create(context.Background(), &models.Portfolio{UserID: "u-1", Subdomain: "ada", Content: []byte(`{"a":1}`)})
	assert.ErrorIs(t, err, common.ErrSubdomainTaken)
}

func TestIncrementViews(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	q := `^UPDATE portfolios SET views = views \+ 1\s+WHERE subdomain = \$1 AND is_published = TRUE\s+RETURNING`

	mock.ExpectQuery(q).WithArgs("ada").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p-1", "u-1", "ada", true, int64(8), []byte(`{"title":"Ada"}`), now, now))

	p, err := repo.IncrementViews(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, int64(8), p.Views)
	assert.JSONEq(t, `{"title":"Ada"}`, string(p.Content))

	mock.ExpectQuery(q).WithArgs("draft").WillReturnError(sql.ErrNoRows)
	_, err = repo.IncrementViews(context.Background(), "draft")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	newer := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)

	mock.ExpectQuery(`^SELECT id, user_id, .* FROM portfolios WHERE user_id = \$1 ORDER BY created_at DESC, id$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p-2", "u-1", "second", false, int64(0), []byte(`{}`), newer, newer).
			AddRow("p-1", "u-1", "first", true, int64(5), []byte(`{}`), older, older))

	list, err := repo.ListByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p-2", list[0].ID)
	assert.Equal(t, "p-1", list[1].ID)
}

func TestListByOwner_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM portfolios WHERE user_id = \$1`).WithArgs("u-9").WillReturnRows(sqlmock.NewRows(cols))

	list, err := repo.ListByOwner(context.Background(), "u-9")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListByOwner_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM portfolios`).WillReturnError(errors.New("timeout"))

	_, err := repo.ListByOwner(context.Background(), "u-1")
	assert.ErrorContains(t, err, "db error")
}

func TestDeleteOwned(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `^DELETE FROM portfolios WHERE id = \$1 AND user_id = \$2$`

	mock.ExpectExec(q).WithArgs("p-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteOwned(context.Background(), "p-1", "u-1"))

	mock.ExpectExec(q).WithArgs("p-1", "u-2").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteOwned(context.Background(), "p-1", "u-2"), common.ErrorNotFound)
}

func TestSetPublishedOwned(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	q := `^UPDATE portfolios SET is_published = \$3, updated_at = now\(\)\s+WHERE id = \$1 AND user_id = \$2\s+RETURNING`

	mock.ExpectQuery(q).WithArgs("p-1", "u-1", true).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p-1", "u-1", "ada", true, int64(0), []byte(`{}`), now, now))

	p, err := repo.SetPublishedOwned(context.Background(), "p-1", "u-1", true)
	require.NoError(t, err)
	assert.True(t, p.IsPublished)

	mock.ExpectQuery(q).WithArgs("p-1", "u-2", true).WillReturnError(sql.ErrNoRows)
	_, err = repo.SetPublishedOwned(context.Background(), "p-1", "u-2", true)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
