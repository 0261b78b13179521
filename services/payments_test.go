package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einadid/microtask-server/models"
)

type fakeGateway struct {
	intents map[string]*Intent
	err     error
	created []int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: map[string]*Intent{}}
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, amount)
	in := &Intent{ID: "pi_test", ClientSecret: "pi_test_secret", Status: "requires_payment_method", Amount: amount, Currency: currency, Metadata: metadata}
	g.intents[in.ID] = in
	return in, nil
}

func (g *fakeGateway) GetIntent(_ context.Context, id string) (*Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	in, ok := g.intents[id]
	if !ok {
		return nil, errors.New("no such payment_intent")
	}
	return in, nil
}

func TestFindPackage(t *testing.T) {
	p, ok := FindPackage("150")
	require.True(t, ok)
	assert.Equal(t, int64(1000), cents(p.Price))
	p, ok = FindPackage("Premium")
	require.True(t, ok)
	assert.Equal(t, int64(1000), p.Coins)
	_, ok = FindPackage("999")
	assert.False(t, ok)
}

func TestCreateIntent(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer, 0)
	gw := newFakeGateway()
	svc := NewPaymentService(db, gw)

	intent, pkg, err := svc.CreateIntent(context.Background(), buyer, "500")
	require.NoError(t, err)
	assert.Equal(t, int64(500), pkg.Coins)
	assert.Equal(t, "pi_test_secret", intent.ClientSecret)
	assert.Equal(t, []int64{2000}, gw.created)
	assert.Equal(t, buyer.Email, intent.Metadata["email"])

	_, _, err = svc.CreateIntent(context.Background(), buyer, "7")
	assert.Equal(t, KindValidation, KindOf(err))

	gw.err = errors.New("card network down")
	_, _, err = svc.CreateIntent(context.Background(), buyer, "10")
	assert.Equal(t, KindExternal, KindOf(err))
}

func TestConfirm_CreditsOnceForSucceededIntent(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer, 50)
	gw := newFakeGateway()
	svc := NewPaymentService(db, gw)
	ctx := context.Background()

	intent, _, err := svc.CreateIntent(ctx, buyer, "150")
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, buyer, intent.ID)
	assert.Equal(t, KindBusiness, KindOf(err))
	assert.Equal(t, int64(50), balance(t, db, buyer.ID))

	intent.Status = IntentSucceeded
	payment, err := svc.Confirm(ctx, buyer, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), payment.CoinsPurchased)
	assert.Equal(t, "10.00", payment.Amount.StringFixed(2))
	assert.Equal(t, int64(200), balance(t, db, buyer.ID))

	_, err = svc.Confirm(ctx, buyer, intent.ID)
	assert.ErrorIs(t, err, ErrPaymentAlreadyApplied)
	assert.Equal(t, int64(200), balance(t, db, buyer.ID))

	rows, err := svc.ByBuyer(buyer.Email)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestConfirm_RejectsForeignOrTamperedIntent(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer, 0)
	other := seedUser(t, db, "other@example.com", models.RoleBuyer, 0)
	gw := newFakeGateway()
	svc := NewPaymentService(db, gw)
	ctx := context.Background()

	intent, _, err := svc.CreateIntent(ctx, buyer, "1000")
	require.NoError(t, err)
	intent.Status = IntentSucceeded

	_, err = svc.Confirm(ctx, other, intent.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	intent.Amount = 100
	_, err = svc.Confirm(ctx, buyer, intent.ID)
	assert.Equal(t, KindBusiness, KindOf(err))

	_, err = svc.Confirm(ctx, buyer, "pi_unknown")
	assert.Equal(t, KindExternal, KindOf(err))

	assert.Zero(t, balance(t, db, buyer.ID))
	all, err := svc.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPaymentService_NoGateway(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer, 0)
	svc := NewPaymentService(db, nil)
	_, err := svc.Confirm(context.Background(), buyer, "pi_1")
	assert.Equal(t, KindExternal, KindOf(err))
}
