// internal/domain/lead.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PublicationState controls whether a lead is offered on the lead board.
type PublicationState string

const (
	PublicationAvailable PublicationState = "AVAILABLE"
	PublicationExhausted PublicationState = "EXHAUSTED"
	PublicationHidden    PublicationState = "HIDDEN"
)

// Lead is a sales opportunity sold to buyers for credits.
// AllocationCount and HasExclusive are the capacity counters that purchases
// update under the lead row lock.
type Lead struct {
	ID                   int64            `db:"id" json:"id"`
	Title                string           `db:"title" json:"title"`
	ProjectValue         decimal.Decimal  `db:"project_value" json:"project_value"`
	MaxSharedAllocations int              `db:"max_shared_allocations" json:"max_shared_allocations"`
	AllocationCount      int              `db:"allocation_count" json:"allocation_count"`
	HasExclusive         bool             `db:"has_exclusive" json:"has_exclusive"`
	PublicationState     PublicationState `db:"publication_state" json:"publication_state"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updated_at"`
}

// NewLead creates an AVAILABLE lead with no allocations.
func NewLead(title string, projectValue decimal.Decimal, maxShared int) *Lead {
	now := time.Now().UTC()
	return &Lead{
		Title:                title,
		ProjectValue:         projectValue,
		MaxSharedAllocations: maxShared,
		PublicationState:     PublicationAvailable,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// RemainingShared returns how many shared allocations can still be sold.
func (l *Lead) RemainingShared() int {
	if l.HasExclusive || l.AllocationCount >= l.MaxSharedAllocations {
		return 0
	}
	return l.MaxSharedAllocations - l.AllocationCount
}

// NextPublicationState computes the state a lead moves to after its counters
// changed. An exclusive sale or a full shared quota exhausts the lead.
func NextPublicationState(count, maxShared int, hasExclusive bool) PublicationState {
	if hasExclusive {
		return PublicationExhausted
	}
	if maxShared > 0 && count >= maxShared {
		return PublicationExhausted
	}
	return PublicationAvailable
}
