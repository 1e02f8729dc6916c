package service

import (
	"context"
	"testing"

	"leadcredit/internal/domain"
	"leadcredit/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLeadFixture() (LeadService, *MockLeadRepository, *MockDBExecutor, *MockTxController) {
	leadRepo := new(MockLeadRepository)
	dbExecutor := new(MockDBExecutor)
	tx := new(MockTxController)
	beginTx, commitTx, rollbackTx := txFuncs(tx)
	svc := NewLeadService(new(MockDBBeginner), dbExecutor, leadRepo, beginTx, commitTx, rollbackTx, zap.NewNop())
	return svc, leadRepo, dbExecutor, tx
}

func TestCreateLead(t *testing.T) {
	ctx := context.Background()
	svc, leadRepo, dbExecutor, _ := newLeadFixture()

	leadRepo.On("CreateLead", ctx, dbExecutor, mock.MatchedBy(func(l *domain.Lead) bool {
		return l.Title == "Kitchen refit" && l.MaxSharedAllocations == 3 && l.PublicationState == domain.PublicationAvailable
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*domain.Lead).ID = 11
	}).Return(nil).Once()

	lead, err := svc.CreateLead(ctx, "Kitchen refit", decimal.NewFromInt(18000), 3)

	require.NoError(t, err)
	assert.Equal(t, int64(11), lead.ID)
	leadRepo.AssertExpectations(t)

	_, err = svc.CreateLead(ctx, " ", decimal.NewFromInt(18000), 3)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = svc.CreateLead(ctx, "Roof", decimal.NewFromInt(18000), -1)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestSetHidden(t *testing.T) {
	t.Run("Hide", func(t *testing.T) {
		ctx := context.Background()
		svc, leadRepo, _, tx := newLeadFixture()

		tx.On("Commit").Return(nil).Once()
		tx.On("Rollback").Return(nil).Maybe()
		leadRepo.On("GetLeadByIDForUpdate", ctx, mock.Anything, int64(4)).Return(sharedLead(1, 3), nil).Once()
		leadRepo.On("UpdateLeadCapacity", ctx, mock.Anything, mock.MatchedBy(func(l *domain.Lead) bool {
			return l.PublicationState == domain.PublicationHidden && l.AllocationCount == 1
		})).Return(nil).Once()

		lead, err := svc.SetHidden(ctx, 4, true)

		require.NoError(t, err)
		assert.Equal(t, domain.PublicationHidden, lead.PublicationState)
		leadRepo.AssertExpectations(t)
	})

	t.Run("UnhideFullLead", func(t *testing.T) {
		ctx := context.Background()
		svc, leadRepo, _, tx := newLeadFixture()
		hidden := sharedLead(3, 3)
		hidden.PublicationState = domain.PublicationHidden

		tx.On("Commit").Return(nil).Once()
		tx.On("Rollback").Return(nil).Maybe()
		leadRepo.On("GetLeadByIDForUpdate", ctx, mock.Anything, int64(4)).Return(hidden, nil).Once()
		leadRepo.On("UpdateLeadCapacity", ctx, mock.Anything, mock.AnythingOfType("*domain.Lead")).Return(nil).Once()

		lead, err := svc.SetHidden(ctx, 4, false)

		require.NoError(t, err)
		assert.Equal(t, domain.PublicationExhausted, lead.PublicationState)
	})

	t.Run("UnknownLead", func(t *testing.T) {
		ctx := context.Background()
		svc, leadRepo, _, tx := newLeadFixture()

		tx.On("Rollback").Return(nil).Once()
		leadRepo.On("GetLeadByIDForUpdate", ctx, mock.Anything, int64(99)).Return(nil, util.ErrLeadNotFound).Once()

		_, err := svc.SetHidden(ctx, 99, true)

		assert.ErrorIs(t, err, util.ErrNotFound)
		tx.AssertNotCalled(t, "Commit")
	})
}
