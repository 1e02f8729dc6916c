// internal/repository/lead_repo.go
package repository

import (
	"context"

	"leadcredit/internal/domain"
)

// LeadRepository defines the interface for lead data operations.
type LeadRepository interface {
	CreateLead(ctx context.Context, q DBExecutor, lead *domain.Lead) error
	GetLeadByID(ctx context.Context, q DBExecutor, id int64) (*domain.Lead, error)
	// GetLeadByIDForUpdate locks the lead's capacity row for the rest of the transaction.
	GetLeadByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Lead, error)
	// UpdateLeadCapacity writes the counters and publication state of a locked lead.
	UpdateLeadCapacity(ctx context.Context, q DBExecutor, lead *domain.Lead) error
	// ListAvailableLeads returns a page of AVAILABLE leads and their total count.
	ListAvailableLeads(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.Lead, int64, error)
}
