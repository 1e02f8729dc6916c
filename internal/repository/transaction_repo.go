// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"time"

	"leadcredit/internal/domain"
)

// TransactionRepository defines the interface for credit ledger entries.
// Entries are append-only.
type TransactionRepository interface {
	// CreateTransaction appends a ledger entry.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByWalletID returns a page of entries created at or after
	// since, in creation order, plus the total number of matching entries.
	GetTransactionsByWalletID(ctx context.Context, q DBExecutor, walletID int64, since time.Time, limit, offset int) ([]domain.Transaction, int64, error)
	// ListAllByWalletID returns every entry of a wallet in id order.
	ListAllByWalletID(ctx context.Context, q DBExecutor, walletID int64) ([]domain.Transaction, error)
	// SumByKindSince totals entry amounts per kind created at or after since.
	SumByKindSince(ctx context.Context, q DBExecutor, walletID int64, since time.Time) (map[domain.TransactionKind]int64, error)
}
