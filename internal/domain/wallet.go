// internal/domain/wallet.go
package domain

import "time"

// Wallet holds a buyer's credit balance. Balance is always >= 0 and equals the
// running sum of the wallet's credit transactions.
type Wallet struct {
	ID        int64     `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	OwnerID   string    `db:"owner_id" json:"owner_id"`     // Opaque buyer id, unique
	Balance   int64     `db:"balance" json:"balance"`       // Credits, never fractional
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewWallet creates a new Wallet instance with a zero balance.
func NewWallet(ownerID string) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		OwnerID:   ownerID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
