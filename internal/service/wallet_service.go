// internal/service/wallet_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadcredit/internal/domain"
	"leadcredit/internal/metrics"
	"leadcredit/internal/repository"
	"leadcredit/internal/util"
	"leadcredit/pkg/db"

	"go.uber.org/zap"
)

// WalletService defines the interface for wallet-related business logic.
type WalletService interface {
	CreateBuyerAndWallet(ctx context.Context, buyerID, email string, companyName *string) (*domain.Buyer, *domain.Wallet, error)
	Recharge(ctx context.Context, ownerID string, amount int64, description *string) (*domain.Wallet, *domain.Transaction, error)
	Adjust(ctx context.Context, ownerID string, amount int64, description *string) (*domain.Wallet, *domain.Transaction, error)
	GetBalance(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetTransactionHistory(ctx context.Context, ownerID string, since time.Time, limit, offset int) ([]domain.Transaction, int64, error)
	VerifyLedger(ctx context.Context, ownerID string) (*LedgerReport, error)
}

// walletService implements the WalletService interface.
type walletService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	buyerRepo       repository.BuyerRepository
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	ledger          ledger
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	retry           RetryPolicy
	logger          *zap.Logger
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	buyerRepo repository.BuyerRepository,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	retry RetryPolicy,
	logger *zap.Logger,
) WalletService {
	return &walletService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		buyerRepo:       buyerRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger{walletRepo: walletRepo, transactionRepo: transactionRepo},
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		retry:           retry,
		logger:          logger,
	}
}

// CreateBuyerAndWallet registers a buyer profile and its empty wallet in one transaction.
func (s *walletService) CreateBuyerAndWallet(ctx context.Context, buyerID, email string, companyName *string) (*domain.Buyer, *domain.Wallet, error) {
	if strings.TrimSpace(buyerID) == "" || strings.TrimSpace(email) == "" {
		return nil, nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("create buyer and wallet: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("create buyer and wallet: transaction controller does not implement DBExecutor")
	}

	_, err = s.buyerRepo.GetBuyerByID(ctx, txExecutor, buyerID)
	if err == nil {
		return nil, nil, fmt.Errorf("create buyer and wallet: buyer '%s' already exists: %w", buyerID, util.ErrDuplicateEntry)
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, nil, fmt.Errorf("create buyer and wallet: failed to check existing buyer: %w", err)
	}

	buyer := domain.NewBuyer(buyerID, email, companyName)
	if err := s.buyerRepo.CreateBuyer(ctx, txExecutor, buyer); err != nil {
		return nil, nil, fmt.Errorf("create buyer and wallet: failed to create buyer: %w", err)
	}

	wallet := domain.NewWallet(buyer.ID)
	if err := s.walletRepo.CreateWallet(ctx, txExecutor, wallet); err != nil {
		return nil, nil, fmt.Errorf("create buyer and wallet: failed to create wallet: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("create buyer and wallet: failed to commit transaction: %w", err)
	}

	s.logger.Info("buyer registered", zap.String("buyer_id", buyer.ID), zap.Int64("wallet_id", wallet.ID))
	return buyer, wallet, nil
}

// Recharge credits a wallet with purchased credits.
func (s *walletService) Recharge(ctx context.Context, ownerID string, amount int64, description *string) (*domain.Wallet, *domain.Transaction, error) {
	if amount <= 0 {
		return nil, nil, util.ErrInvalidInput
	}
	return s.post(ctx, "recharge", ownerID, domain.TransactionKindRecharge, amount, description)
}

// Adjust applies a signed manual correction. It cannot overdraw the wallet.
func (s *walletService) Adjust(ctx context.Context, ownerID string, amount int64, description *string) (*domain.Wallet, *domain.Transaction, error) {
	if amount == 0 {
		return nil, nil, util.ErrInvalidInput
	}
	return s.post(ctx, "adjust", ownerID, domain.TransactionKindAdjust, amount, description)
}

func (s *walletService) post(ctx context.Context, op, ownerID string, kind domain.TransactionKind, amount int64, description *string) (*domain.Wallet, *domain.Transaction, error) {
	var (
		wallet *domain.Wallet
		entry  *domain.Transaction
	)
	err := withRetry(ctx, s.retry, op, s.logger, func() error {
		var err error
		wallet, entry, err = s.postOnce(ctx, op, ownerID, kind, amount, description)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.LedgerEntriesTotal.WithLabelValues(string(kind)).Inc()
	s.logger.Info("ledger entry posted",
		zap.String("owner_id", ownerID),
		zap.String("kind", string(kind)),
		zap.Int64("amount", amount),
		zap.Int64("balance", wallet.Balance),
	)
	return wallet, entry, nil
}

func (s *walletService) postOnce(ctx context.Context, op, ownerID string, kind domain.TransactionKind, amount int64, description *string) (*domain.Wallet, *domain.Transaction, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	wallet, err := s.ledger.lockWallet(ctx, txExecutor, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to get wallet of %s: %w", op, ownerID, err)
	}

	entry, err := s.ledger.postLedgerEntry(ctx, txExecutor, wallet, kind, amount, nil, description)
	if err != nil {
		if errors.Is(err, util.ErrInsufficientBalance) {
			return nil, nil, util.ErrInsufficientBalance
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return wallet, entry, nil
}

// GetBalance reads the wallet from the primary, so a buyer always sees their
// latest committed purchase.
func (s *walletService) GetBalance(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetWalletByOwnerID(ctx, s.dbExecutor, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get balance: failed to get wallet of %s: %w", ownerID, err)
	}
	return wallet, nil
}

// GetTransactionHistory retrieves a page of a wallet's ledger entries in creation order.
func (s *walletService) GetTransactionHistory(ctx context.Context, ownerID string, since time.Time, limit, offset int) ([]domain.Transaction, int64, error) {
	if limit <= 0 || offset < 0 {
		return nil, 0, util.ErrInvalidInput
	}

	wallet, err := s.walletRepo.GetWalletByOwnerID(ctx, s.dbExecutor, ownerID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, 0, util.ErrWalletNotFound
		}
		return nil, 0, fmt.Errorf("failed to check wallet existence: %w", err)
	}

	transactions, totalCount, err := s.transactionRepo.GetTransactionsByWalletID(ctx, s.dbExecutor, wallet.ID, since, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}

	return transactions, totalCount, nil
}

// VerifyLedger replays a wallet's ledger against its stored balance. The wallet
// row is locked while reading so no entry lands between the two reads.
func (s *walletService) VerifyLedger(ctx context.Context, ownerID string) (*LedgerReport, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("verify ledger: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("verify ledger: transaction controller does not implement DBExecutor")
	}

	wallet, err := s.ledger.lockWallet(ctx, txExecutor, ownerID)
	if err != nil {
		return nil, fmt.Errorf("verify ledger: failed to get wallet of %s: %w", ownerID, err)
	}
	entries, err := s.transactionRepo.ListAllByWalletID(ctx, txExecutor, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("verify ledger: %w", err)
	}
	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("verify ledger: failed to commit transaction: %w", err)
	}

	report := reconcile(wallet, entries)
	if !report.Consistent {
		s.logger.Error("ledger mismatch",
			zap.String("owner_id", ownerID),
			zap.Int64("balance", report.Balance),
			zap.Int64("ledger_sum", report.LedgerSum),
			zap.String("reason", report.Reason),
		)
		return report, util.ErrLedgerMismatch
	}
	return report, nil
}
