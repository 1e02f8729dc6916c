// internal/repository/db_executor.go
package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBExecutor is what every repository method runs its SQL on.
// Services pass the pool for plain reads and the open *sqlx.Tx for anything
// that locks rows, so a whole purchase shares one transaction.
type DBExecutor interface {
	// GetContext scans a single row into dest.
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	// SelectContext scans every row into the slice dest.
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	// QueryRowContext is used by INSERT ... RETURNING and UPDATE ... RETURNING.
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	_ DBExecutor = (*sqlx.DB)(nil)
	_ DBExecutor = (*sqlx.Tx)(nil)
)
