// internal/service/report_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"leadcredit/internal/capacity"
	"leadcredit/internal/domain"
	"leadcredit/internal/pricing"
	"leadcredit/internal/repository"
	"leadcredit/internal/util"
)

// Dashboard summarizes a buyer's credit activity since a point in time.
type Dashboard struct {
	OwnerID          string    `json:"owner_id"`
	Balance          int64     `json:"balance"`
	Since            time.Time `json:"since"`
	CreditsConsumed  int64     `json:"credits_consumed"`
	CreditsRecharged int64     `json:"credits_recharged"`
	CreditsAdjusted  int64     `json:"credits_adjusted"`
	LeadsAcquired    int64     `json:"leads_acquired"`
}

// LevelPrice is the indicative price of one competition choice on a lead.
type LevelPrice struct {
	CompetitionLevel int    `json:"competition_level"`
	Exclusive        bool   `json:"exclusive"`
	Credits          int64  `json:"credits"`
	Available        bool   `json:"available"`
	Description      string `json:"description"`
}

// LeadOffer is a lead as shown on the lead board.
type LeadOffer struct {
	domain.Lead
	RemainingShared int          `json:"remaining_shared"`
	Prices          []LevelPrice `json:"prices"`
}

// ReportService serves read-only views over wallets and leads.
type ReportService interface {
	Dashboard(ctx context.Context, ownerID string, since time.Time) (*Dashboard, error)
	AvailableLeads(ctx context.Context, limit, offset int) ([]LeadOffer, int64, error)
}

type reportService struct {
	dbExecutor      repository.DBExecutor
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	leadRepo        repository.LeadRepository
	allocationRepo  repository.AllocationRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	leadRepo repository.LeadRepository,
	allocationRepo repository.AllocationRepository,
) ReportService {
	return &reportService{
		dbExecutor:      dbExecutor,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		leadRepo:        leadRepo,
		allocationRepo:  allocationRepo,
	}
}

func (s *reportService) Dashboard(ctx context.Context, ownerID string, since time.Time) (*Dashboard, error) {
	wallet, err := s.walletRepo.GetWalletByOwnerID(ctx, s.dbExecutor, ownerID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to get wallet of %s: %w", ownerID, err)
	}

	sums, err := s.transactionRepo.SumByKindSince(ctx, s.dbExecutor, wallet.ID, since)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	acquired, err := s.allocationRepo.CountByBuyerSince(ctx, s.dbExecutor, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &Dashboard{
		OwnerID:          ownerID,
		Balance:          wallet.Balance,
		Since:            since,
		CreditsConsumed:  -sums[domain.TransactionKindConsume],
		CreditsRecharged: sums[domain.TransactionKindRecharge],
		CreditsAdjusted:  sums[domain.TransactionKindAdjust],
		LeadsAcquired:    acquired,
	}, nil
}

func (s *reportService) AvailableLeads(ctx context.Context, limit, offset int) ([]LeadOffer, int64, error) {
	if limit <= 0 || offset < 0 {
		return nil, 0, util.ErrInvalidInput
	}

	leads, total, err := s.leadRepo.ListAvailableLeads(ctx, s.dbExecutor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("available leads: %w", err)
	}

	offers := make([]LeadOffer, 0, len(leads))
	for i := range leads {
		offers = append(offers, offerFor(leads[i]))
	}
	return offers, total, nil
}

func offerFor(lead domain.Lead) LeadOffer {
	snapshot := capacity.SnapshotOf(&lead)
	prices := make([]LevelPrice, 0, pricing.MaxCompetitionLevel+1)

	for level := domain.ExclusiveLevel; level <= pricing.MaxCompetitionLevel; level++ {
		exclusive := level == domain.ExclusiveLevel
		cost, err := pricing.TotalCost(lead.ProjectValue, level, exclusive)
		if err != nil {
			continue
		}
		prices = append(prices, LevelPrice{
			CompetitionLevel: level,
			Exclusive:        exclusive,
			Credits:          cost,
			Available:        capacity.Admit(snapshot, level) == nil,
			Description:      pricing.Describe(level, exclusive),
		})
	}

	return LeadOffer{
		Lead:            lead,
		RemainingShared: lead.RemainingShared(),
		Prices:          prices,
	}
}
