package service

import (
	"context"
	"database/sql"
	"time"

	"leadcredit/internal/domain"
	"leadcredit/internal/notify"
	"leadcredit/internal/repository"
	"leadcredit/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockBuyerRepository is a mock implementation of repository.BuyerRepository.
type MockBuyerRepository struct {
	mock.Mock
}

func (m *MockBuyerRepository) CreateBuyer(ctx context.Context, q repository.DBExecutor, buyer *domain.Buyer) error {
	args := m.Called(ctx, q, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) GetBuyerByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Buyer, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Buyer), args.Error(1)
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	args := m.Called(ctx, q, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetWalletByOwnerID(ctx context.Context, q repository.DBExecutor, ownerID string) (*domain.Wallet, error) {
	args := m.Called(ctx, q, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByOwnerIDForUpdate(ctx context.Context, q repository.DBExecutor, ownerID string) (*domain.Wallet, error) {
	args := m.Called(ctx, q, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateWalletBalance(ctx context.Context, q repository.DBExecutor, walletID int64, delta int64) (int64, error) {
	args := m.Called(ctx, q, walletID, delta)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, since time.Time, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, walletID, since, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) ListAllByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, walletID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByKindSince(ctx context.Context, q repository.DBExecutor, walletID int64, since time.Time) (map[domain.TransactionKind]int64, error) {
	args := m.Called(ctx, q, walletID, since)
	return args.Get(0).(map[domain.TransactionKind]int64), args.Error(1)
}

// MockLeadRepository is a mock implementation of repository.LeadRepository.
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) CreateLead(ctx context.Context, q repository.DBExecutor, lead *domain.Lead) error {
	args := m.Called(ctx, q, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) GetLeadByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Lead, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) GetLeadByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Lead, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateLeadCapacity(ctx context.Context, q repository.DBExecutor, lead *domain.Lead) error {
	args := m.Called(ctx, q, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) ListAvailableLeads(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Lead, int64, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]domain.Lead), args.Get(1).(int64), args.Error(2)
}

// MockAllocationRepository is a mock implementation of repository.AllocationRepository.
type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) CreateAllocation(ctx context.Context, q repository.DBExecutor, allocation *domain.Allocation) error {
	args := m.Called(ctx, q, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) GetByIdempotencyKey(ctx context.Context, q repository.DBExecutor, buyerID, key string) (*domain.Allocation, error) {
	args := m.Called(ctx, q, buyerID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) ExistsForLeadAndBuyer(ctx context.Context, q repository.DBExecutor, leadID int64, buyerID string) (bool, error) {
	args := m.Called(ctx, q, leadID, buyerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAllocationRepository) CountByBuyerSince(ctx context.Context, q repository.DBExecutor, buyerID string, since time.Time) (int64, error) {
	args := m.Called(ctx, q, buyerID, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAllocation(ctx context.Context, notice notify.AllocationNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implements repository.DBExecutor by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// txFuncs returns transaction helpers that hand out tx.
func txFuncs(tx *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return tx, nil
		},
		func(db.TxController) error {
			return tx.Commit()
		},
		func(db.TxController) {
			_ = tx.Rollback()
		}
}
