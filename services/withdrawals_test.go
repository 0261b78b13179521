package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einadid/microtask-server/models"
)

func wdInput(coin int64) WithdrawalInput {
	return WithdrawalInput{Coin: coin, PaymentSystem: "bkash", AccountNumber: "01700000000"}
}

func TestCoinsToDollars(t *testing.T) {
	assert.True(t, decimal.NewFromInt(10).Equal(CoinsToDollars(200, 20)))
	assert.True(t, decimal.RequireFromString("12.35").Equal(CoinsToDollars(247, 20)))
	assert.True(t, decimal.NewFromInt(15).Equal(CoinsToDollars(300, 0)))
}

func TestRequestWithdrawal_CreatesPendingWithoutDebit(t *testing.T) {
	db := newTestDB(t)
	worker := seedUser(t, db, "worker@example.com", models.RoleWorker, 500)
	svc := NewWithdrawalService(db)

	wd, err := svc.Request(worker, wdInput(300))
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalPending, wd.Status)
	assert.Equal(t, "15.00", wd.WithdrawalAmount.StringFixed(2))
	assert.Equal(t, int64(500), balance(t, db, worker.ID))
}

func TestRequestWithdrawal_Rejections(t *testing.T) {
	db := newTestDB(t)
	worker := seedUser(t, db, "worker@example.com", models.RoleWorker, 250)
	svc := NewWithdrawalService(db)

	_, err := svc.Request(worker, wdInput(150))
	assert.Equal(t, KindBusiness, KindOf(err))

	_, err = svc.Request(worker, wdInput(300))
	assert.ErrorIs(t, err, ErrInsufficientCoins)

	in := wdInput(200)
	in.AccountNumber = ""
	_, err = svc.Request(worker, in)
	assert.Equal(t, KindValidation, KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.Withdrawal{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, int64(250), balance(t, db, worker.ID))
}

func TestApproveWithdrawal_DebitsOnce(t *testing.T) {
	db := newTestDB(t)
	worker := seedUser(t, db, "worker@example.com", models.RoleWorker, 500)
	svc := NewWithdrawalService(db)
	wd, err := svc.Request(worker, wdInput(200))
	require.NoError(t, err)

	got, err := svc.Approve(wd.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalApproved, got.Status)
	assert.Equal(t, int64(300), balance(t, db, worker.ID))

	_, err = svc.Approve(wd.ID)
	assert.ErrorIs(t, err, ErrWithdrawalNotPending)
	assert.Equal(t, int64(300), balance(t, db, worker.ID))

	notes, err := NewNotificationService(db).ForUser(worker.Email)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "approved")
}

func TestApproveWithdrawal_GuardedAgainstOverdraw(t *testing.T) {
	db := newTestDB(t)
	worker := seedUser(t, db, "worker@example.com", models.RoleWorker, 300)
	svc := NewWithdrawalService(db)
	first, err := svc.Request(worker, wdInput(200))
	require.NoError(t, err)
	second, err := svc.Request(worker, wdInput(250))
	require.NoError(t, err)

	_, err = svc.Approve(first.ID)
	require.NoError(t, err)
	_, err = svc.Approve(second.ID)
	assert.ErrorIs(t, err, ErrInsufficientCoins)

	assert.Equal(t, int64(100), balance(t, db, worker.ID))
	assert.Equal(t, models.WithdrawalPending, reload[models.Withdrawal](t, db, second.ID).Status)
}

func TestRejectWithdrawal(t *testing.T) {
	db := newTestDB(t)
	worker := seedUser(t, db, "worker@example.com", models.RoleWorker, 300)
	svc := NewWithdrawalService(db)
	wd, err := svc.Request(worker, wdInput(200))
	require.NoError(t, err)

	got, err := svc.Reject(wd.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, got.Status)
	assert.Equal(t, int64(300), balance(t, db, worker.ID))

	_, err = svc.Approve(wd.ID)
	assert.ErrorIs(t, err, ErrWithdrawalNotPending)

	pending, err := svc.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
	mine, err := svc.ByWorker(worker.Email)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
