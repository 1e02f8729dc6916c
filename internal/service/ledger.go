// internal/service/ledger.go
package service

import (
	"context"
	"fmt"

	"leadcredit/internal/domain"
	"leadcredit/internal/repository"
	"leadcredit/internal/util"
)

// ledger is the only code path that changes a wallet balance. Every change is
// lock wallet row, update balance, append entry, inside the caller's transaction.
type ledger struct {
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
}

// lockWallet reads a wallet and holds its row lock until the transaction ends.
func (l ledger) lockWallet(ctx context.Context, q repository.DBExecutor, ownerID string) (*domain.Wallet, error) {
	return l.walletRepo.GetWalletByOwnerIDForUpdate(ctx, q, ownerID)
}

// postLedgerEntry applies amount to a wallet locked by lockWallet and appends
// the matching entry. wallet.Balance is updated in place.
func (l ledger) postLedgerEntry(
	ctx context.Context,
	q repository.DBExecutor,
	wallet *domain.Wallet,
	kind domain.TransactionKind,
	amount int64,
	allocationID *int64,
	description *string,
) (*domain.Transaction, error) {
	if amount == 0 || !kind.Valid() {
		return nil, util.ErrInvalidInput
	}
	if wallet.Balance+amount < 0 {
		return nil, util.ErrInsufficientBalance
	}

	newBalance, err := l.walletRepo.UpdateWalletBalance(ctx, q, wallet.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("ledger: failed to update wallet balance: %w", err)
	}

	entry := domain.NewTransaction(wallet.ID, kind, amount, newBalance, allocationID, description)
	if err := l.transactionRepo.CreateTransaction(ctx, q, entry); err != nil {
		return nil, fmt.Errorf("ledger: failed to append %s entry: %w", kind, err)
	}

	wallet.Balance = newBalance
	wallet.UpdatedAt = entry.CreatedAt
	return entry, nil
}

// LedgerReport is the outcome of replaying a wallet's ledger.
type LedgerReport struct {
	OwnerID         string `json:"owner_id"`
	WalletID        int64  `json:"wallet_id"`
	Balance         int64  `json:"balance"`
	LedgerSum       int64  `json:"ledger_sum"`
	Entries         int    `json:"entries"`
	Consistent      bool   `json:"consistent"`
	FirstMismatchID *int64 `json:"first_mismatch_id,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// reconcile replays entries in id order. Each balance_after must equal the
// running sum, the running sum must never go negative and the final sum must
// equal the stored balance.
func reconcile(wallet *domain.Wallet, entries []domain.Transaction) *LedgerReport {
	report := &LedgerReport{
		OwnerID:    wallet.OwnerID,
		WalletID:   wallet.ID,
		Balance:    wallet.Balance,
		Entries:    len(entries),
		Consistent: true,
	}

	var sum int64
	for i := range entries {
		e := entries[i]
		sum += e.Amount
		switch {
		case sum < 0:
			report.mismatch(e.ID, fmt.Sprintf("running balance %d is negative", sum))
		case e.BalanceAfter != sum:
			report.mismatch(e.ID, fmt.Sprintf("balance_after %d, running sum %d", e.BalanceAfter, sum))
		}
		if !report.Consistent {
			break
		}
	}
	report.LedgerSum = sum

	if report.Consistent && sum != wallet.Balance {
		report.Consistent = false
		report.Reason = fmt.Sprintf("wallet balance %d, ledger sum %d", wallet.Balance, sum)
	}
	return report
}

func (r *LedgerReport) mismatch(id int64, reason string) {
	r.Consistent = false
	r.FirstMismatchID = &id
	r.Reason = reason
}
