// internal/service/allocation_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadcredit/internal/capacity"
	"leadcredit/internal/domain"
	"leadcredit/internal/metrics"
	"leadcredit/internal/notify"
	"leadcredit/internal/pricing"
	"leadcredit/internal/repository"
	"leadcredit/internal/util"
	"leadcredit/pkg/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteRequest asks for the price of an allocation without buying it.
type QuoteRequest struct {
	ProjectValue     decimal.Decimal
	CompetitionLevel int
	Exclusive        bool
}

// Quote is a price preview.
type Quote struct {
	ProjectValue      decimal.Decimal `json:"project_value"`
	CompetitionLevel  int             `json:"competition_level"`
	Exclusive         bool            `json:"exclusive"`
	BaseCredits       int64           `json:"base_credits"`
	AdditionalCredits int64           `json:"additional_credits"`
	TotalCredits      int64           `json:"total_credits"`
	Description       string          `json:"description"`
}

// PurchaseRequest asks to allocate a lead to a buyer.
type PurchaseRequest struct {
	BuyerID          string
	LeadID           int64
	CompetitionLevel int
	Exclusive        bool
	// IdempotencyKey is an optional client generated UUID. A repeated key for
	// the same lead returns the committed allocation instead of buying again.
	IdempotencyKey string
}

// PurchaseResult describes a committed allocation.
type PurchaseResult struct {
	AllocationID     int64 `json:"allocation_id"`
	LeadID           int64 `json:"lead_id"`
	CompetitionLevel int   `json:"competition_level"`
	CreditCost       int64 `json:"credit_cost"`
	NewBalance       int64 `json:"new_balance"`
	Replayed         bool  `json:"replayed"`
}

// AllocationService prices and sells leads.
type AllocationService interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)
}

// PurchaseOptions tunes the purchase unit of work.
type PurchaseOptions struct {
	Retry       RetryPolicy
	LockTimeout time.Duration // 0 keeps the server default
}

type allocationService struct {
	dbBeginner     db.DBTxBeginner
	dbExecutor     repository.DBExecutor
	buyerRepo      repository.BuyerRepository
	leadRepo       repository.LeadRepository
	allocationRepo repository.AllocationRepository
	ledger         ledger
	notifier       notify.Notifier
	beginTx        db.BeginTxFunc
	commitTx       db.CommitTxFunc
	rollbackTx     db.RollbackTxFunc
	opts           PurchaseOptions
	logger         *zap.Logger
}

// NewAllocationService creates a new instance of AllocationService.
func NewAllocationService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	buyerRepo repository.BuyerRepository,
	walletRepo repository.WalletRepository,
	leadRepo repository.LeadRepository,
	allocationRepo repository.AllocationRepository,
	transactionRepo repository.TransactionRepository,
	notifier notify.Notifier,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	opts PurchaseOptions,
	logger *zap.Logger,
) AllocationService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &allocationService{
		dbBeginner:     dbBeginner,
		dbExecutor:     dbExecutor,
		buyerRepo:      buyerRepo,
		leadRepo:       leadRepo,
		allocationRepo: allocationRepo,
		ledger:         ledger{walletRepo: walletRepo, transactionRepo: transactionRepo},
		notifier:       notifier,
		beginTx:        beginTx,
		commitTx:       commitTx,
		rollbackTx:     rollbackTx,
		opts:           opts,
		logger:         logger,
	}
}

// Quote prices an allocation. It never touches the store.
func (s *allocationService) Quote(_ context.Context, req QuoteRequest) (*Quote, error) {
	if req.ProjectValue.IsNegative() {
		return nil, fmt.Errorf("quote: negative project value: %w", util.ErrInvalidInput)
	}
	level := req.CompetitionLevel
	if req.Exclusive {
		level = domain.ExclusiveLevel
	}

	extra, err := pricing.AdditionalPrice(level, req.Exclusive)
	if err != nil {
		return nil, err
	}
	base := pricing.BasePrice(req.ProjectValue)
	metrics.QuotesTotal.Inc()

	return &Quote{
		ProjectValue:      req.ProjectValue,
		CompetitionLevel:  level,
		Exclusive:         req.Exclusive,
		BaseCredits:       base,
		AdditionalCredits: extra,
		TotalCredits:      base + extra,
		Description:       pricing.Describe(level, req.Exclusive),
	}, nil
}

// Purchase atomically debits the buyer, records the allocation and its CONSUME
// entry and updates the lead's capacity row.
func (s *allocationService) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	level, key, err := normalizePurchase(req)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(purchaseOutcome(err)).Inc()
		return nil, err
	}

	if key != nil {
		res, err := s.replay(ctx, req, *key)
		if err == nil {
			metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeReplayed).Inc()
			return res, nil
		}
		if !errors.Is(err, util.ErrNotFound) {
			metrics.PurchasesTotal.WithLabelValues(purchaseOutcome(err)).Inc()
			return nil, err
		}
	}

	var (
		result *PurchaseResult
		lead   *domain.Lead
	)
	err = withRetry(ctx, s.opts.Retry, "purchase", s.logger, func() error {
		var err error
		result, lead, err = s.purchaseOnce(ctx, req, level, key)
		return err
	})
	if err != nil {
		if key != nil && (util.IsUniqueViolation(err, repository.ConstraintIdempotencyKey) || errors.Is(err, util.ErrAlreadyAllocated)) {
			// A concurrent request with the same key may have committed first.
			res, replayErr := s.replay(ctx, req, *key)
			if replayErr == nil {
				metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeReplayed).Inc()
				return res, nil
			}
			if errors.Is(replayErr, util.ErrIdempotencyKeyReused) {
				err = replayErr
			}
		}
		metrics.PurchasesTotal.WithLabelValues(purchaseOutcome(err)).Inc()
		s.logger.Info("purchase rejected",
			zap.String("buyer_id", req.BuyerID),
			zap.Int64("lead_id", req.LeadID),
			zap.Int("competition_level", level),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeCommitted).Inc()
	metrics.CreditsConsumedTotal.Add(float64(result.CreditCost))
	metrics.LedgerEntriesTotal.WithLabelValues(string(domain.TransactionKindConsume)).Inc()
	s.logger.Info("purchase committed",
		zap.String("buyer_id", req.BuyerID),
		zap.Int64("lead_id", req.LeadID),
		zap.Int64("allocation_id", result.AllocationID),
		zap.Int64("credit_cost", result.CreditCost),
		zap.Int64("new_balance", result.NewBalance),
	)

	s.notify(ctx, req.BuyerID, lead, result)
	return result, nil
}

func (s *allocationService) purchaseOnce(ctx context.Context, req PurchaseRequest, level int, key *string) (*PurchaseResult, *domain.Lead, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("purchase: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("purchase: transaction controller does not implement DBExecutor")
	}

	if err := db.SetLockTimeout(ctx, txExecutor, s.opts.LockTimeout); err != nil {
		return nil, nil, fmt.Errorf("purchase: %w", err)
	}

	// Lead before wallet, always.
	lead, err := s.leadRepo.GetLeadByIDForUpdate(ctx, txExecutor, req.LeadID)
	if err != nil {
		return nil, nil, fmt.Errorf("purchase: failed to lock lead %d: %w", req.LeadID, err)
	}
	if lead.PublicationState == domain.PublicationHidden {
		return nil, nil, fmt.Errorf("purchase: lead %d: %w", req.LeadID, util.ErrLeadNotFound)
	}

	wallet, err := s.ledger.lockWallet(ctx, txExecutor, req.BuyerID)
	if err != nil {
		return nil, nil, fmt.Errorf("purchase: failed to lock wallet of %s: %w", req.BuyerID, err)
	}

	cost, err := pricing.TotalCost(lead.ProjectValue, level, req.Exclusive)
	if err != nil {
		return nil, nil, err
	}
	if wallet.Balance < cost {
		return nil, nil, util.ErrInsufficientBalance
	}

	held, err := s.allocationRepo.ExistsForLeadAndBuyer(ctx, txExecutor, lead.ID, req.BuyerID)
	if err != nil {
		return nil, nil, fmt.Errorf("purchase: %w", err)
	}
	if held {
		return nil, nil, util.ErrAlreadyAllocated
	}

	snapshot := capacity.SnapshotOf(lead)
	if err := capacity.Admit(snapshot, level); err != nil {
		return nil, nil, err
	}

	allocation := domain.NewAllocation(lead.ID, wallet.ID, req.BuyerID, level, cost, key)
	if err := s.allocationRepo.CreateAllocation(ctx, txExecutor, allocation); err != nil {
		return nil, nil, fmt.Errorf("purchase: %w", mapAllocationConflict(err))
	}

	if _, err := s.ledger.postLedgerEntry(ctx, txExecutor, wallet, domain.TransactionKindConsume, -cost, &allocation.ID, nil); err != nil {
		return nil, nil, fmt.Errorf("purchase: %w", err)
	}

	next := capacity.Apply(snapshot, level)
	lead.AllocationCount = next.AllocationCount
	lead.HasExclusive = next.HasExclusive
	lead.PublicationState = next.State
	if err := s.leadRepo.UpdateLeadCapacity(ctx, txExecutor, lead); err != nil {
		return nil, nil, fmt.Errorf("purchase: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("purchase: failed to commit transaction: %w", err)
	}

	return &PurchaseResult{
		AllocationID:     allocation.ID,
		LeadID:           lead.ID,
		CompetitionLevel: level,
		CreditCost:       cost,
		NewBalance:       wallet.Balance,
	}, lead, nil
}

// replay returns the allocation committed under key. ErrNotFound means the
// key is unused.
func (s *allocationService) replay(ctx context.Context, req PurchaseRequest, key string) (*PurchaseResult, error) {
	allocation, err := s.allocationRepo.GetByIdempotencyKey(ctx, s.dbExecutor, req.BuyerID, key)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("purchase: failed to look up idempotency key: %w", err)
	}
	if allocation.LeadID != req.LeadID {
		return nil, util.ErrIdempotencyKeyReused
	}

	wallet, err := s.ledger.walletRepo.GetWalletByOwnerID(ctx, s.dbExecutor, req.BuyerID)
	if err != nil {
		return nil, fmt.Errorf("purchase: failed to read wallet of %s: %w", req.BuyerID, err)
	}
	return &PurchaseResult{
		AllocationID:     allocation.ID,
		LeadID:           allocation.LeadID,
		CompetitionLevel: allocation.CompetitionLevel,
		CreditCost:       allocation.CreditCost,
		NewBalance:       wallet.Balance,
		Replayed:         true,
	}, nil
}

// notify hands the committed allocation to the notifier. The purchase is
// final at this point so failures are only logged.
func (s *allocationService) notify(ctx context.Context, buyerID string, lead *domain.Lead, res *PurchaseResult) {
	buyer, err := s.buyerRepo.GetBuyerByID(ctx, s.dbExecutor, buyerID)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.NotificationSkipped).Inc()
		s.logger.Warn("skipping allocation notice", zap.String("buyer_id", buyerID), zap.Error(err))
		return
	}

	notice := notify.AllocationNotice{
		AllocationID:     res.AllocationID,
		LeadID:           lead.ID,
		LeadTitle:        lead.Title,
		BuyerID:          buyerID,
		Email:            buyer.Email,
		CompetitionLevel: res.CompetitionLevel,
		CreditCost:       res.CreditCost,
		Balance:          res.NewBalance,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.notifier.NotifyAllocation(ctx, notice); err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.NotificationFailed).Inc()
		s.logger.Error("failed to notify allocation",
			zap.Int64("allocation_id", res.AllocationID),
			zap.Error(err),
		)
	}
}

// normalizePurchase validates a request before any store access. An exclusive
// request is recorded at level 0.
func normalizePurchase(req PurchaseRequest) (int, *string, error) {
	if req.BuyerID == "" || req.LeadID <= 0 {
		return 0, nil, util.ErrInvalidInput
	}

	level := req.CompetitionLevel
	if req.Exclusive {
		level = domain.ExclusiveLevel
	} else if level < 1 || level > pricing.MaxCompetitionLevel {
		return 0, nil, fmt.Errorf("purchase: level %d: %w", level, util.ErrInvalidCompetitionLevel)
	}

	if req.IdempotencyKey == "" {
		return level, nil, nil
	}
	parsed, err := uuid.Parse(req.IdempotencyKey)
	if err != nil {
		return 0, nil, fmt.Errorf("purchase: idempotency key is not a UUID: %w", util.ErrInvalidInput)
	}
	key := parsed.String()
	return level, &key, nil
}

// mapAllocationConflict turns unique violations on allocations into the
// business error they stand for. The idempotency key violation is kept as is
// so Purchase can replay.
func mapAllocationConflict(err error) error {
	switch {
	case util.IsUniqueViolation(err, repository.ConstraintLeadBuyer):
		return util.ErrAlreadyAllocated
	case util.IsUniqueViolation(err, repository.ConstraintOneExclusive):
		return util.ErrAlreadyExclusive
	}
	return err
}

func purchaseOutcome(err error) string {
	switch {
	case errors.Is(err, util.ErrInsufficientBalance):
		return metrics.OutcomeInsufficientBalance
	case errors.Is(err, util.ErrCapacityExceeded):
		return metrics.OutcomeCapacityExceeded
	case errors.Is(err, util.ErrAlreadyExclusive):
		return metrics.OutcomeAlreadyExclusive
	case errors.Is(err, util.ErrAlreadyAllocated):
		return metrics.OutcomeAlreadyAllocated
	case errors.Is(err, util.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, util.ErrInvalidCompetitionLevel),
		errors.Is(err, util.ErrInvalidInput),
		errors.Is(err, util.ErrIdempotencyKeyReused):
		return metrics.OutcomeInvalid
	case errors.Is(err, util.ErrTransientStoreFailure):
		return metrics.OutcomeTransient
	}
	return metrics.OutcomeError
}
