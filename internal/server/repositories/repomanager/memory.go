package repomanager

import (
	"context"
	"database/sql"

	"github.com/HazimBhatt/sharefolio/internal/dbx"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/memory"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/portfolios"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/users"
)

// MemoryRepositoryManager vends repositories over one shared memory.Store.
// The DBTX argument is ignored; use Store() as the dbx.TxManager.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

// Store returns the backing store; it implements dbx.TxManager.
func (m *MemoryRepositoryManager) Store() *memory.Store { return m.store }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return memory.NewUsersRepository(m.store)
}

func (m *MemoryRepositoryManager) Portfolios(dbx.DBTX) portfolios.Repository {
	return memory.NewPortfoliosRepository(m.store)
}

// RunMigrations is a no-op; the memory store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }
