// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"leadcredit/internal/domain"
	"leadcredit/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

const transactionColumns = `id, wallet_id, kind, amount, balance_after, allocation_id, description, created_at`

// CreateTransaction appends a ledger entry using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO credit_transactions (wallet_id, kind, amount, balance_after, allocation_id, description, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.WalletID,
		transaction.Kind,
		transaction.Amount,
		transaction.BalanceAfter,
		transaction.AllocationID,
		transaction.Description,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByWalletID retrieves a page of a wallet's entries in creation order.
// It performs two queries: one for the data and one for the total count.
func (r *TransactionRepository) GetTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, since time.Time, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT ` + transactionColumns + `
		FROM credit_transactions
		WHERE wallet_id = $1 AND created_at >= $2
		ORDER BY id ASC
		LIMIT $3 OFFSET $4`
	err := q.SelectContext(ctx, &transactions, query, walletID, since, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for wallet %d: %w", walletID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM credit_transactions WHERE wallet_id = $1 AND created_at >= $2`
	err = q.GetContext(ctx, &totalCount, countQuery, walletID, since)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total transaction count for wallet %d: %w", walletID, err)
	}

	return transactions, totalCount, nil
}

// ListAllByWalletID returns the full ledger of a wallet in id order.
func (r *TransactionRepository) ListAllByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM credit_transactions WHERE wallet_id = $1 ORDER BY id ASC`
	if err := q.SelectContext(ctx, &transactions, query, walletID); err != nil {
		return nil, fmt.Errorf("failed to list ledger for wallet %d: %w", walletID, err)
	}
	return transactions, nil
}

type kindSum struct {
	Kind  domain.TransactionKind `db:"kind"`
	Total int64                  `db:"total"`
}

// SumByKindSince totals amounts per kind. Kinds without entries are absent from the map.
func (r *TransactionRepository) SumByKindSince(ctx context.Context, q repository.DBExecutor, walletID int64, since time.Time) (map[domain.TransactionKind]int64, error) {
	rows := []kindSum{}
	query := `SELECT kind, COALESCE(SUM(amount), 0) AS total FROM credit_transactions
              WHERE wallet_id = $1 AND created_at >= $2 GROUP BY kind`
	if err := q.SelectContext(ctx, &rows, query, walletID, since); err != nil {
		return nil, fmt.Errorf("failed to sum transactions for wallet %d: %w", walletID, err)
	}
	sums := make(map[domain.TransactionKind]int64, len(rows))
	for _, row := range rows {
		sums[row.Kind] = row.Total
	}
	return sums, nil
}
