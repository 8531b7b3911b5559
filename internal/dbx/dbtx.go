// Package dbx provides the small database abstractions shared by
// repositories and services: DBTX, implemented by both *sql.DB and *sql.Tx,
// and helpers that run work inside a transaction.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoRowsAffected is returned by ExpectAffected when a write touched
// nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

// DBTX is the subset of database/sql used by our repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager hands out a handle for plain statements and runs units of work
// that must commit or roll back together. Services depend on it instead of a
// concrete *sql.DB.
type TxManager interface {
	Conn() DBTX
	WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// WithTx begins a transaction, runs fn with the transactional handle, and
// commits on success or rolls back on error/panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// SQLTxManager is the TxManager backed by a *sql.DB pool.
type SQLTxManager struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewSQLTxManager wraps db. opts may be nil for driver defaults.
func NewSQLTxManager(db *sql.DB, opts *sql.TxOptions) *SQLTxManager {
	return &SQLTxManager{db: db, opts: opts}
}

func (m *SQLTxManager) Conn() DBTX { return m.db }

func (m *SQLTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return WithTx(ctx, m.db, m.opts, fn)
}

// ExpectAffected returns ErrNoRowsAffected when res reports zero rows.
func ExpectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
