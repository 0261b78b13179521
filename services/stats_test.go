package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einadid/microtask-server/models"
)

func TestStats(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer, 100)
	worker := seedUser(t, db, "worker@example.com", models.RoleWorker, 300)
	tasks := NewTaskService(db)
	subs := NewSubmissionService(db)

	task, err := tasks.Create(buyer, taskInput(3, 10))
	require.NoError(t, err)
	s1, err := subs.Submit(worker, task.ID, "proof")
	require.NoError(t, err)
	_, err = subs.Submit(worker, task.ID, "proof")
	require.NoError(t, err)
	_, err = subs.Approve(buyer, s1.ID)
	require.NoError(t, err)

	gw := newFakeGateway()
	pay := NewPaymentService(db, gw)
	intent, _, err := pay.CreateIntent(context.Background(), buyer, "150")
	require.NoError(t, err)
	intent.Status = IntentSucceeded
	_, err = pay.Confirm(context.Background(), buyer, intent.ID)
	require.NoError(t, err)

	_, err = NewWithdrawalService(db).Request(worker, WithdrawalInput{Coin: 200, PaymentSystem: "nagad", AccountNumber: "1"})
	require.NoError(t, err)

	svc := NewStatsService(db)
	admin, err := svc.Admin()
	require.NoError(t, err)
	assert.Equal(t, int64(1), admin.TotalWorkers)
	assert.Equal(t, int64(1), admin.TotalBuyers)
	// buyer 100-30+150, worker 300+10
	assert.Equal(t, int64(530), admin.TotalCoins)
	assert.Equal(t, "10.00", admin.TotalPayments.StringFixed(2))
	assert.Equal(t, int64(1), admin.PendingWithdrawals)

	b, err := svc.Buyer(buyer.Email)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.TotalTasks)
	assert.Equal(t, int64(2), b.PendingWorkers)
	assert.Equal(t, int64(1), b.PendingSubmissions)

	w, err := svc.Worker(worker.Email)
	require.NoError(t, err)
	assert.Equal(t, int64(2), w.TotalSubmissions)
	assert.Equal(t, int64(1), w.PendingSubmissions)
	assert.Equal(t, int64(10), w.TotalEarnings)
}
