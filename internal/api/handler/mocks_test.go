package handler

import (
	"context"
	"time"

	"leadcredit/internal/domain"
	"leadcredit/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) Quote(ctx context.Context, req service.QuoteRequest) (*service.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Quote), args.Error(1)
}

func (m *MockAllocationService) Purchase(ctx context.Context, req service.PurchaseRequest) (*service.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PurchaseResult), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Dashboard(ctx context.Context, ownerID string, since time.Time) (*service.Dashboard, error) {
	args := m.Called(ctx, ownerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockReportService) AvailableLeads(ctx context.Context, limit, offset int) ([]service.LeadOffer, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]service.LeadOffer), args.Get(1).(int64), args.Error(2)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) CreateBuyerAndWallet(ctx context.Context, buyerID, email string, companyName *string) (*domain.Buyer, *domain.Wallet, error) {
	args := m.Called(ctx, buyerID, email, companyName)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Buyer), args.Get(1).(*domain.Wallet), args.Error(2)
}

func (m *MockWalletService) Recharge(ctx context.Context, ownerID string, amount int64, description *string) (*domain.Wallet, *domain.Transaction, error) {
	args := m.Called(ctx, ownerID, amount, description)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockWalletService) Adjust(ctx context.Context, ownerID string, amount int64, description *string) (*domain.Wallet, *domain.Transaction, error) {
	args := m.Called(ctx, ownerID, amount, description)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockWalletService) GetBalance(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletService) GetTransactionHistory(ctx context.Context, ownerID string, since time.Time, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, ownerID, since, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletService) VerifyLedger(ctx context.Context, ownerID string) (*service.LedgerReport, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LedgerReport), args.Error(1)
}

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) CreateLead(ctx context.Context, title string, projectValue decimal.Decimal, maxShared int) (*domain.Lead, error) {
	args := m.Called(ctx, title, projectValue, maxShared)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadService) SetHidden(ctx context.Context, leadID int64, hidden bool) (*domain.Lead, error) {
	args := m.Called(ctx, leadID, hidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
