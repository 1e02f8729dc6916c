// internal/service/lead_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"leadcredit/internal/domain"
	"leadcredit/internal/repository"
	"leadcredit/internal/util"
	"leadcredit/pkg/db"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LeadService publishes leads and controls their visibility.
type LeadService interface {
	CreateLead(ctx context.Context, title string, projectValue decimal.Decimal, maxShared int) (*domain.Lead, error)
	// SetHidden hides a lead from buyers or publishes it again. Unhiding
	// recomputes the state from the lead's counters.
	SetHidden(ctx context.Context, leadID int64, hidden bool) (*domain.Lead, error)
}

type leadService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	leadRepo   repository.LeadRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	logger     *zap.Logger
}

// NewLeadService creates a new instance of LeadService.
func NewLeadService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	leadRepo repository.LeadRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *zap.Logger,
) LeadService {
	return &leadService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		leadRepo:   leadRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		logger:     logger,
	}
}

func (s *leadService) CreateLead(ctx context.Context, title string, projectValue decimal.Decimal, maxShared int) (*domain.Lead, error) {
	if strings.TrimSpace(title) == "" || projectValue.IsNegative() || maxShared < 0 {
		return nil, util.ErrInvalidInput
	}

	lead := domain.NewLead(title, projectValue, maxShared)
	if err := s.leadRepo.CreateLead(ctx, s.dbExecutor, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	s.logger.Info("lead published",
		zap.Int64("lead_id", lead.ID),
		zap.String("project_value", projectValue.String()),
		zap.Int("max_shared_allocations", maxShared),
	)
	return lead, nil
}

func (s *leadService) SetHidden(ctx context.Context, leadID int64, hidden bool) (*domain.Lead, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("set lead visibility: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("set lead visibility: transaction controller does not implement DBExecutor")
	}

	lead, err := s.leadRepo.GetLeadByIDForUpdate(ctx, txExecutor, leadID)
	if err != nil {
		return nil, fmt.Errorf("set lead visibility: failed to lock lead %d: %w", leadID, err)
	}

	if hidden {
		lead.PublicationState = domain.PublicationHidden
	} else {
		lead.PublicationState = domain.NextPublicationState(lead.AllocationCount, lead.MaxSharedAllocations, lead.HasExclusive)
	}
	if err := s.leadRepo.UpdateLeadCapacity(ctx, txExecutor, lead); err != nil {
		return nil, fmt.Errorf("set lead visibility: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("set lead visibility: failed to commit transaction: %w", err)
	}
	return lead, nil
}
