// internal/domain/allocation.go
package domain

import "time"

// DefaultCommercialStatus is the pipeline status written for a new allocation.
const DefaultCommercialStatus = "NEW"

// ExclusiveLevel is the competition level recorded for an exclusive allocation.
const ExclusiveLevel = 0

// Allocation records that a buyer acquired access to a lead.
type Allocation struct {
	ID               int64     `db:"id" json:"id"`
	LeadID           int64     `db:"lead_id" json:"lead_id"`
	WalletID         int64     `db:"wallet_id" json:"wallet_id"`
	BuyerID          string    `db:"buyer_id" json:"buyer_id"`
	CompetitionLevel int       `db:"competition_level" json:"competition_level"` // 0 means exclusive
	CreditCost       int64     `db:"credit_cost" json:"credit_cost"`
	CommercialStatus string    `db:"commercial_status" json:"commercial_status"`
	IdempotencyKey   *string   `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// NewAllocation creates a new Allocation instance.
func NewAllocation(leadID, walletID int64, buyerID string, level int, cost int64, idempotencyKey *string) *Allocation {
	return &Allocation{
		LeadID:           leadID,
		WalletID:         walletID,
		BuyerID:          buyerID,
		CompetitionLevel: level,
		CreditCost:       cost,
		CommercialStatus: DefaultCommercialStatus,
		IdempotencyKey:   idempotencyKey,
		CreatedAt:        time.Now().UTC(),
	}
}

// IsExclusive reports whether the allocation was sold exclusively.
func (a *Allocation) IsExclusive() bool {
	return a.CompetitionLevel == ExclusiveLevel
}
