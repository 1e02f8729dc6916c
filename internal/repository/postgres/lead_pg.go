// internal/repository/postgres/lead_pg.go
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

// LeadRepository implements repository.LeadRepository for PostgreSQL.
type LeadRepository struct{}

// NewLeadRepository creates a new LeadRepository.
func NewLeadRepository() repository.LeadRepository {
	return &LeadRepository{}
}

const leadColumns = `id, title, project_value, max_shared_allocations, allocation_count, has_exclusive, publication_state, created_at, updated_at`

// CreateLead inserts a lead. Leads normally arrive from the publishing side;
// this is used by the admin CLI and tests.
func (r *LeadRepository) CreateLead(ctx context.Context, q repository.DBExecutor, lead *domain.Lead) error {
	query := `INSERT INTO leads (title, project_value, max_shared_allocations, allocation_count, has_exclusive, publication_state, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		lead.Title,
		lead.ProjectValue,
		lead.MaxSharedAllocations,
		lead.AllocationCount,
		lead.HasExclusive,
		lead.PublicationState,
		lead.CreatedAt,
		lead.UpdatedAt,
	).Scan(&lead.ID)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// GetLeadByID retrieves a lead without locking it.
func (r *LeadRepository) GetLeadByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Lead, error) {
	return r.getLead(ctx, q, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
}

// GetLeadByIDForUpdate retrieves a lead and holds its row lock.
func (r *LeadRepository) GetLeadByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Lead, error) {
	return r.getLead(ctx, q, `SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id)
}

func (r *LeadRepository) getLead(ctx context.Context, q repository.DBExecutor, query string, id int64) (*domain.Lead, error) {
	var lead domain.Lead
	if err := q.GetContext(ctx, &lead, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead by ID %d: %w", id, err)
	}
	return &lead, nil
}

// UpdateLeadCapacity persists allocation_count, has_exclusive and publication_state.
func (r *LeadRepository) UpdateLeadCapacity(ctx context.Context, q repository.DBExecutor, lead *domain.Lead) error {
	lead.UpdatedAt = time.Now().UTC()
	query := `UPDATE leads SET allocation_count = $1, has_exclusive = $2, publication_state = $3, updated_at = $4 WHERE id = $5`
	result, err := q.ExecContext(ctx, query, lead.AllocationCount, lead.HasExclusive, lead.PublicationState, lead.UpdatedAt, lead.ID)
	if err != nil {
		return fmt.Errorf("failed to update capacity of lead %d: %w", lead.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating lead %d: %w", lead.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrLeadNotFound
	}
	return nil
}

// ListAvailableLeads returns a page of AVAILABLE leads, oldest first.
func (r *LeadRepository) ListAvailableLeads(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Lead, int64, error) {
	leads := []domain.Lead{}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE publication_state = $1 ORDER BY id ASC LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &leads, query, domain.PublicationAvailable, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list available leads: %w", err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM leads WHERE publication_state = $1`, domain.PublicationAvailable); err != nil {
		return nil, 0, fmt.Errorf("failed to count available leads: %w", err)
	}
	return leads, total, nil
}
