// internal/repository/postgres/allocation_pg.go
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

// AllocationRepository implements repository.AllocationRepository for PostgreSQL.
type AllocationRepository struct{}

// NewAllocationRepository creates a new AllocationRepository.
func NewAllocationRepository() repository.AllocationRepository {
	return &AllocationRepository{}
}

const allocationColumns = `id, lead_id, wallet_id, buyer_id, competition_level, credit_cost, commercial_status, idempotency_key, created_at`

// CreateAllocation inserts an allocation. Unique violations keep their
// *pq.Error in the chain so callers can tell the constraints apart.
func (r *AllocationRepository) CreateAllocation(ctx context.Context, q repository.DBExecutor, a *domain.Allocation) error {
	query := `INSERT INTO allocations (lead_id, wallet_id, buyer_id, competition_level, credit_cost, commercial_status, idempotency_key, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		a.LeadID,
		a.WalletID,
		a.BuyerID,
		a.CompetitionLevel,
		a.CreditCost,
		a.CommercialStatus,
		a.IdempotencyKey,
		a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create allocation: %w", err)
	}
	return nil
}

// GetByIdempotencyKey looks up a committed allocation by (buyer, key).
func (r *AllocationRepository) GetByIdempotencyKey(ctx context.Context, q repository.DBExecutor, buyerID, key string) (*domain.Allocation, error) {
	var a domain.Allocation
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE buyer_id = $1 AND idempotency_key = $2`
	if err := q.GetContext(ctx, &a, query, buyerID, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get allocation by idempotency key: %w", err)
	}
	return &a, nil
}

// ExistsForLeadAndBuyer reports whether buyerID already holds leadID.
func (r *AllocationRepository) ExistsForLeadAndBuyer(ctx context.Context, q repository.DBExecutor, leadID int64, buyerID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM allocations WHERE lead_id = $1 AND buyer_id = $2)`
	if err := q.GetContext(ctx, &exists, query, leadID, buyerID); err != nil {
		return false, fmt.Errorf("failed to check allocation of lead %d: %w", leadID, err)
	}
	return exists, nil
}

// CountByBuyerSince counts allocations a buyer acquired at or after since.
func (r *AllocationRepository) CountByBuyerSince(ctx context.Context, q repository.DBExecutor, buyerID string, since time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM allocations WHERE buyer_id = $1 AND created_at >= $2`
	if err := q.GetContext(ctx, &count, query, buyerID, since); err != nil {
		return 0, fmt.Errorf("failed to count allocations for buyer %s: %w", buyerID, err)
	}
	return count, nil
}
