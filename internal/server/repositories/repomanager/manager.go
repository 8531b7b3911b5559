package repomanager

import (
	"context"
	"database/sql"

	"github.com/HazimBhatt/sharefolio/internal/dbx"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/portfolios"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, which is either the
// pool connection or an open transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Portfolios(db dbx.DBTX) portfolios.Repository
}
