// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"leadcredit/internal/domain"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet to the database.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByOwnerID retrieves a buyer's wallet.
	GetWalletByOwnerID(ctx context.Context, q DBExecutor, ownerID string) (*domain.Wallet, error)
	// GetWalletByOwnerIDForUpdate retrieves a buyer's wallet and locks its row
	// until the surrounding transaction ends.
	GetWalletByOwnerIDForUpdate(ctx context.Context, q DBExecutor, ownerID string) (*domain.Wallet, error)
	// UpdateWalletBalance adds delta to the balance and returns the new balance.
	UpdateWalletBalance(ctx context.Context, q DBExecutor, walletID int64, delta int64) (int64, error)
}
