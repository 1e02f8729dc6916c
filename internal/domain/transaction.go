// internal/domain/transaction.go
package domain

import "time"

// TransactionKind defines why a ledger entry changed a wallet balance.
type TransactionKind string

const (
	TransactionKindRecharge TransactionKind = "RECHARGE"
	TransactionKindConsume  TransactionKind = "CONSUME"
	TransactionKindAdjust   TransactionKind = "ADJUST"
)

// Valid reports whether k is a known transaction kind.
func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindRecharge, TransactionKindConsume, TransactionKindAdjust:
		return true
	}
	return false
}

// Transaction is an immutable credit ledger entry. Once written it is never
// updated or deleted.
type Transaction struct {
	ID           int64           `db:"id" json:"id"`                       // Primary key, BIGSERIAL in DB
	WalletID     int64           `db:"wallet_id" json:"wallet_id"`         // Wallet the entry applies to
	Kind         TransactionKind `db:"kind" json:"kind"`                   // RECHARGE, CONSUME or ADJUST
	Amount       int64           `db:"amount" json:"amount"`               // Signed credit amount
	BalanceAfter int64           `db:"balance_after" json:"balance_after"` // Wallet balance right after this entry
	AllocationID *int64          `db:"allocation_id" json:"allocation_id"` // Allocation that caused a CONSUME entry
	Description  *string         `db:"description" json:"description"`     // Optional free text
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a new Transaction instance.
func NewTransaction(
	walletID int64,
	kind TransactionKind,
	amount int64,
	balanceAfter int64,
	allocationID *int64,
	description *string,
) *Transaction {
	return &Transaction{
		WalletID:     walletID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		AllocationID: allocationID,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
}
