// internal/repository/allocation_repo.go
package repository

import (
	"context"
	"time"

	"leadcredit/internal/domain"
)

// Unique constraints on allocations that concurrent purchases can trip.
const (
	ConstraintLeadBuyer      = "allocations_lead_buyer_key"
	ConstraintIdempotencyKey = "allocations_buyer_idempotency_key"
	ConstraintOneExclusive   = "allocations_one_exclusive_per_lead"
)

// AllocationRepository defines the interface for allocation data operations.
type AllocationRepository interface {
	CreateAllocation(ctx context.Context, q DBExecutor, allocation *domain.Allocation) error
	// GetByIdempotencyKey returns the allocation a buyer committed under key.
	GetByIdempotencyKey(ctx context.Context, q DBExecutor, buyerID, key string) (*domain.Allocation, error)
	// ExistsForLeadAndBuyer reports whether the buyer already holds the lead.
	ExistsForLeadAndBuyer(ctx context.Context, q DBExecutor, leadID int64, buyerID string) (bool, error)
	// CountByBuyerSince counts allocations a buyer acquired at or after since.
	CountByBuyerSince(ctx context.Context, q DBExecutor, buyerID string, since time.Time) (int64, error)
}
