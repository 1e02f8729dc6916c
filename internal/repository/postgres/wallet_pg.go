// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadcredit/internal/domain"
	"leadcredit/internal/repository"
	"leadcredit/internal/util"
)

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

const walletColumns = `id, owner_id, balance, created_at, updated_at`

// CreateWallet inserts a new wallet into the database using the provided DBExecutor.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (owner_id, balance, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query, wallet.OwnerID, wallet.Balance, wallet.CreatedAt, wallet.UpdatedAt).Scan(&wallet.ID)
	if err != nil {
		if util.IsUniqueViolation(err, "") {
			return fmt.Errorf("wallet for %s: %w", wallet.OwnerID, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// GetWalletByOwnerID retrieves a wallet by its owner using the provided DBExecutor.
func (r *WalletRepository) GetWalletByOwnerID(ctx context.Context, q repository.DBExecutor, ownerID string) (*domain.Wallet, error) {
	return r.getWallet(ctx, q, `SELECT `+walletColumns+` FROM wallets WHERE owner_id = $1`, ownerID)
}

// GetWalletByOwnerIDForUpdate is GetWalletByOwnerID with a row lock.
func (r *WalletRepository) GetWalletByOwnerIDForUpdate(ctx context.Context, q repository.DBExecutor, ownerID string) (*domain.Wallet, error) {
	return r.getWallet(ctx, q, `SELECT `+walletColumns+` FROM wallets WHERE owner_id = $1 FOR UPDATE`, ownerID)
}

func (r *WalletRepository) getWallet(ctx context.Context, q repository.DBExecutor, query, ownerID string) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := q.GetContext(ctx, &wallet, query, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for owner %s: %w", ownerID, err)
	}
	return &wallet, nil
}

// UpdateWalletBalance applies delta and returns the resulting balance.
// A result below zero trips the balance CHECK and maps to ErrInsufficientBalance.
func (r *WalletRepository) UpdateWalletBalance(ctx context.Context, q repository.DBExecutor, walletID int64, delta int64) (int64, error) {
	query := `UPDATE wallets SET balance = balance + $1, updated_at = $2 WHERE id = $3 RETURNING balance`
	var balance int64
	err := q.QueryRowContext(ctx, query, delta, time.Now().UTC(), walletID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, util.ErrWalletNotFound
		}
		if util.IsCheckViolation(err) {
			return 0, util.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("failed to update wallet balance for ID %d: %w", walletID, err)
	}
	return balance, nil
}
