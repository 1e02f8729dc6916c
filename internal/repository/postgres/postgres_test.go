package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"leadcredit/internal/domain"
	"leadcredit/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestWalletRepository_CreateWallet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository()
	wallet := domain.NewWallet("buyer-1")

	mock.ExpectQuery(`INSERT INTO wallets`).
		WithArgs("buyer-1", int64(0), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	require.NoError(t, repo.CreateWallet(context.Background(), db, wallet))
	assert.Equal(t, int64(7), wallet.ID)
}

func TestWalletRepository_GetWalletByOwnerIDForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository()
	now := time.Now()

	mock.ExpectQuery(`FROM wallets WHERE owner_id = \$1 FOR UPDATE`).
		WithArgs("buyer-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at", "updated_at"}).
			AddRow(7, "buyer-1", 40, now, now))

	wallet, err := repo.GetWalletByOwnerIDForUpdate(context.Background(), db, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), wallet.Balance)
}

func TestWalletRepository_GetWalletNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository()

	mock.ExpectQuery(`FROM wallets WHERE owner_id`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetWalletByOwnerID(context.Background(), db, "ghost")
	assert.ErrorIs(t, err, util.ErrWalletNotFound)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestWalletRepository_UpdateWalletBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository()

	mock.ExpectQuery(`UPDATE wallets SET balance = balance \+ \$1`).
		WithArgs(int64(-6), sqlmock.AnyArg(), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(34))
	mock.ExpectQuery(`UPDATE wallets SET balance`).
		WithArgs(int64(-100), sqlmock.AnyArg(), int64(7)).
		WillReturnError(&pq.Error{Code: "23514", Constraint: "wallets_balance_non_negative"})

	balance, err := repo.UpdateWalletBalance(context.Background(), db, 7, -6)
	require.NoError(t, err)
	assert.Equal(t, int64(34), balance)

	_, err = repo.UpdateWalletBalance(context.Background(), db, 7, -100)
	assert.ErrorIs(t, err, util.ErrInsufficientBalance)
}

func TestBuyerRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBuyerRepository()

	mock.ExpectExec(`INSERT INTO buyers`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "buyers_pkey"})

	err := repo.CreateBuyer(context.Background(), db, domain.NewBuyer("buyer-1", "a@b.c", nil))
	assert.ErrorIs(t, err, util.ErrDuplicateEntry)
}

func TestTransactionRepository_CreateAndList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository()
	allocationID := int64(3)
	txn := domain.NewTransaction(7, domain.TransactionKindConsume, -6, 34, &allocationID, nil)

	mock.ExpectQuery(`INSERT INTO credit_transactions`).
		WithArgs(int64(7), domain.TransactionKindConsume, int64(-6), int64(34), &allocationID, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	require.NoError(t, repo.CreateTransaction(context.Background(), db, txn))
	assert.Equal(t, int64(11), txn.ID)

	since := time.Now().Add(-time.Hour)
	cols := []string{"id", "wallet_id", "kind", "amount", "balance_after", "allocation_id", "description", "created_at"}
	mock.ExpectQuery(`FROM credit_transactions WHERE wallet_id = \$1 AND created_at >= \$2 ORDER BY id ASC`).
		WithArgs(int64(7), since, 10, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(10, 7, "RECHARGE", 40, 40, nil, "welcome pack", time.Now()).
			AddRow(11, 7, "CONSUME", -6, 34, 3, nil, time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM credit_transactions`).
		WithArgs(int64(7), since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	txns, total, err := repo.GetTransactionsByWalletID(context.Background(), db, 7, since, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, txns, 2)
	assert.Equal(t, domain.TransactionKindRecharge, txns[0].Kind)
	require.NotNil(t, txns[0].Description)
	assert.Equal(t, "welcome pack", *txns[0].Description)
	require.NotNil(t, txns[1].AllocationID)
	assert.Equal(t, int64(3), *txns[1].AllocationID)
}

func TestTransactionRepository_SumByKindSince(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository()
	since := time.Now().Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT kind, COALESCE\(SUM\(amount\), 0\) AS total`).
		WithArgs(int64(7), since).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "total"}).
			AddRow("RECHARGE", 50).
			AddRow("CONSUME", -12))

	sums, err := repo.SumByKindSince(context.Background(), db, 7, since)
	require.NoError(t, err)
	assert.Equal(t, int64(50), sums[domain.TransactionKindRecharge])
	assert.Equal(t, int64(-12), sums[domain.TransactionKindConsume])
	assert.Zero(t, sums[domain.TransactionKindAdjust])
}

func TestLeadRepository_GetForUpdateAndUpdateCapacity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository()
	now := time.Now()

	cols := []string{"id", "title", "project_value", "max_shared_allocations", "allocation_count", "has_exclusive", "publication_state", "created_at", "updated_at"}
	mock.ExpectQuery(`FROM leads WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(5, "Roof repair", "39000.00", 3, 2, false, "AVAILABLE", now, now))

	lead, err := repo.GetLeadByIDForUpdate(context.Background(), db, 5)
	require.NoError(t, err)
	assert.True(t, lead.ProjectValue.Equal(decimal.NewFromInt(39000)))
	assert.Equal(t, domain.PublicationAvailable, lead.PublicationState)

	lead.AllocationCount = 3
	lead.PublicationState = domain.PublicationExhausted
	mock.ExpectExec(`UPDATE leads SET allocation_count = \$1, has_exclusive = \$2, publication_state = \$3`).
		WithArgs(3, false, domain.PublicationExhausted, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateLeadCapacity(context.Background(), db, lead))
}

func TestLeadRepository_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository()

	mock.ExpectQuery(`FROM leads WHERE id = \$1`).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetLeadByID(context.Background(), db, 99)
	assert.ErrorIs(t, err, util.ErrLeadNotFound)
}

func TestAllocationRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAllocationRepository()
	key := "0d7c3a7e-7a4f-4b61-9f39-0b6a1c9d2f10"
	alloc := domain.NewAllocation(5, 7, "buyer-1", 2, 6, &key)

	mock.ExpectQuery(`INSERT INTO allocations`).
		WithArgs(int64(5), int64(7), "buyer-1", 2, int64(6), domain.DefaultCommercialStatus, &key, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	require.NoError(t, repo.CreateAllocation(context.Background(), db, alloc))
	assert.Equal(t, int64(3), alloc.ID)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(5), "buyer-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	exists, err := repo.ExistsForLeadAndBuyer(context.Background(), db, 5, "buyer-1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(`FROM allocations WHERE buyer_id = \$1 AND idempotency_key = \$2`).
		WithArgs("buyer-1", "missing").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByIdempotencyKey(context.Background(), db, "buyer-1", "missing")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
