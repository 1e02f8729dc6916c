package service

import (
	"context"
	"testing"
	"time"

	"leadcredit/internal/domain"
	"leadcredit/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	since := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	walletRepo := new(MockWalletRepository)
	transactionRepo := new(MockTransactionRepository)
	allocationRepo := new(MockAllocationRepository)
	dbExecutor := new(MockDBExecutor)
	svc := NewReportService(dbExecutor, walletRepo, transactionRepo, new(MockLeadRepository), allocationRepo)

	walletRepo.On("GetWalletByOwnerID", ctx, dbExecutor, "buyer-1").Return(&domain.Wallet{ID: 7, OwnerID: "buyer-1", Balance: 31}, nil).Once()
	transactionRepo.On("SumByKindSince", ctx, dbExecutor, int64(7), since).Return(map[domain.TransactionKind]int64{
		domain.TransactionKindRecharge: 50,
		domain.TransactionKindConsume:  -17,
		domain.TransactionKindAdjust:   -2,
	}, nil).Once()
	allocationRepo.On("CountByBuyerSince", ctx, dbExecutor, "buyer-1", since).Return(int64(3), nil).Once()

	d, err := svc.Dashboard(ctx, "buyer-1", since)

	require.NoError(t, err)
	assert.Equal(t, &Dashboard{
		OwnerID:          "buyer-1",
		Balance:          31,
		Since:            since,
		CreditsConsumed:  17,
		CreditsRecharged: 50,
		CreditsAdjusted:  -2,
		LeadsAcquired:    3,
	}, d)
	mock.AssertExpectationsForObjects(t, walletRepo, transactionRepo, allocationRepo)
}

func TestDashboardUnknownWallet(t *testing.T) {
	ctx := context.Background()
	walletRepo := new(MockWalletRepository)
	dbExecutor := new(MockDBExecutor)
	svc := NewReportService(dbExecutor, walletRepo, new(MockTransactionRepository), new(MockLeadRepository), new(MockAllocationRepository))

	walletRepo.On("GetWalletByOwnerID", ctx, dbExecutor, "ghost").Return(nil, util.ErrWalletNotFound).Once()

	_, err := svc.Dashboard(ctx, "ghost", time.Now())
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestAvailableLeads(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	dbExecutor := new(MockDBExecutor)
	svc := NewReportService(dbExecutor, new(MockWalletRepository), new(MockTransactionRepository), leadRepo, new(MockAllocationRepository))

	leads := []domain.Lead{
		{ID: 1, Title: "Fresh", ProjectValue: decimal.NewFromInt(39000), MaxSharedAllocations: 3, PublicationState: domain.PublicationAvailable},
		{ID: 2, Title: "Shared twice", ProjectValue: decimal.NewFromInt(10000), MaxSharedAllocations: 3, AllocationCount: 2, PublicationState: domain.PublicationAvailable},
	}
	leadRepo.On("ListAvailableLeads", ctx, dbExecutor, 20, 0).Return(leads, int64(2), nil).Once()

	offers, total, err := svc.AvailableLeads(ctx, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, offers, 2)

	fresh := offers[0]
	assert.Equal(t, 3, fresh.RemainingShared)
	require.Len(t, fresh.Prices, 5)
	assert.True(t, fresh.Prices[0].Exclusive)
	assert.Equal(t, int64(13), fresh.Prices[0].Credits)
	for _, p := range fresh.Prices {
		assert.True(t, p.Available, "level %d", p.CompetitionLevel)
	}

	shared := offers[1]
	assert.Equal(t, 1, shared.RemainingShared)
	byLevel := map[int]LevelPrice{}
	for _, p := range shared.Prices {
		byLevel[p.CompetitionLevel] = p
	}
	assert.False(t, byLevel[0].Available)
	assert.False(t, byLevel[1].Available)
	assert.True(t, byLevel[2].Available)
	assert.Equal(t, int64(2), byLevel[4].Credits)

	_, _, err = svc.AvailableLeads(ctx, 0, 0)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	leadRepo.AssertExpectations(t)
}
