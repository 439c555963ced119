package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories and node stores run their SQL against. A
// store built over a *sql.Tx sees the writes made earlier in that
// transaction, which the ancestor walk relies on.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
