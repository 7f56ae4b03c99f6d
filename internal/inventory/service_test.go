package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/catalog/catalogtest"
	"github.com/ariefcatur/go-shop/internal/inventory"
	"github.com/ariefcatur/go-shop/internal/inventory/inventorytest"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/ariefcatur/go-shop/internal/session/sessiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *inventory.Service
	repo     *inventorytest.Repo
	products *catalogtest.Repo
	auth     *sessiontest.Auth
	seller   string
}

var fixedNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) fixture {
	t.Helper()
	products := catalogtest.NewRepo()
	auth := sessiontest.NewAuth()
	repo := inventorytest.NewRepo()
	svc := inventory.NewService(repo, catalog.NewService(products, auth), auth).
		WithClock(func() time.Time { return fixedNow })
	return fixture{svc: svc, repo: repo, products: products, auth: auth, seller: auth.Login(7, session.RoleSeller)}
}

func TestCreate_DuplicateAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.products.Seed(7, "Mug", "5", 10)
	theirs := f.products.Seed(8, "Cup", "5", 10)

	v, err := f.svc.Create(ctx, f.seller, inventory.Request{ProductID: mine, Threshold: 15})
	require.NoError(t, err)
	assert.True(t, v.Enabled)
	assert.True(t, v.Triggered)
	assert.Equal(t, 10, v.CurrentQuantity)

	_, err = f.svc.Create(ctx, f.seller, inventory.Request{ProductID: mine, Threshold: 3})
	assert.ErrorIs(t, err, apperr.ErrAlertAlreadyExists)

	_, err = f.svc.Create(ctx, f.seller, inventory.Request{ProductID: theirs, Threshold: 3})
	assert.ErrorIs(t, err, apperr.ErrNotOwner)

	_, err = f.svc.Create(ctx, f.seller, inventory.Request{ProductID: 404, Threshold: 3})
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)

	_, err = f.svc.Create(ctx, f.auth.Login(1, session.RoleCustomer), inventory.Request{ProductID: mine})
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestTriggeredSummaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.products.Seed(7, "A", "5", 10)
	b := f.products.Seed(7, "B", "5", 5)
	c := f.products.Seed(7, "C", "5", 50)
	off := false

	_, err := f.svc.Create(ctx, f.seller, inventory.Request{ProductID: a, Threshold: 15})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.seller, inventory.Request{ProductID: b, Threshold: 20})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.seller, inventory.Request{ProductID: c, Threshold: 20})
	require.NoError(t, err)
	other := f.products.Seed(9, "D", "5", 0)
	_, err = f.svc.Create(ctx, f.auth.Login(9, session.RoleSeller), inventory.Request{ProductID: other, Threshold: 1, Enabled: &off})
	require.NoError(t, err)

	got, err := f.svc.ListTriggeredForSeller(ctx, f.seller)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 6, got[0].QuantityToRestock)
	assert.Equal(t, 16, got[1].QuantityToRestock)

	all, err := f.svc.ListAllTriggered(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	list, err := f.svc.ListForSeller(ctx, f.seller)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestToggleUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.products.Seed(7, "A", "5", 2)
	b := f.products.Seed(7, "B", "5", 2)
	v, err := f.svc.Create(ctx, f.seller, inventory.Request{ProductID: a, Threshold: 5})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.seller, inventory.Request{ProductID: b, Threshold: 5})
	require.NoError(t, err)

	got, err := f.svc.Toggle(ctx, f.seller, v.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Triggered)

	enabled, err := f.svc.ListEnabledForSeller(ctx, f.seller)
	require.NoError(t, err)
	assert.Len(t, enabled, 1)

	_, err = f.svc.Update(ctx, f.seller, v.ID, inventory.Request{ProductID: b, Threshold: 1})
	assert.ErrorIs(t, err, apperr.ErrAlertAlreadyExists)

	got, err = f.svc.Update(ctx, f.seller, v.ID, inventory.Request{ProductID: a, Threshold: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Threshold)

	stranger := f.auth.Login(8, session.RoleSeller)
	assert.ErrorIs(t, f.svc.Delete(ctx, stranger, v.ID), apperr.ErrNotOwner)
	require.NoError(t, f.svc.Delete(ctx, f.seller, v.ID))
	_, err = f.svc.Get(ctx, f.seller, v.ID)
	assert.ErrorIs(t, err, apperr.ErrAlertNotFound)

	_, err = f.svc.GetByProduct(ctx, f.seller, a)
	assert.ErrorIs(t, err, apperr.ErrAlertNotFound)
}

func TestRecordAlertSent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.products.Seed(7, "A", "5", 2)
	v, err := f.svc.Create(ctx, f.seller, inventory.Request{ProductID: a, Threshold: 5})
	require.NoError(t, err)

	require.NoError(t, f.svc.RecordAlertSent(ctx, v.ID))
	require.NoError(t, f.svc.RecordAlertSent(ctx, v.ID))

	got, err := f.svc.Get(ctx, f.seller, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AlertCount)
	require.NotNil(t, got.LastAlertSentAt)
	assert.Equal(t, fixedNow, *got.LastAlertSentAt)

	assert.ErrorIs(t, f.svc.RecordAlertSent(ctx, 99), apperr.ErrAlertNotFound)
}
