package cart_test

import (
	"context"
	"testing"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/ariefcatur/go-shop/internal/cart/carttest"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/catalog/catalogtest"
	"github.com/ariefcatur/go-shop/internal/postgres/pgtest"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/ariefcatur/go-shop/internal/session/sessiontest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *cart.Service
	products *catalogtest.Repo
	carts    *carttest.Repo
	token    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	products := catalogtest.NewRepo()
	carts := carttest.NewRepo()
	auth := sessiontest.NewAuth()
	catalogSvc := catalog.NewService(products, auth)

	_, err := carts.Create(context.Background(), 1)
	require.NoError(t, err)

	return fixture{
		svc:      cart.NewService(carts, catalogSvc, auth, pgtest.NoTx{}),
		products: products,
		carts:    carts,
		token:    auth.Login(1, session.RoleCustomer),
	}
}

func TestService_AddRemoveKeepsTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.products.Seed(5, "Book", "100", 10)

	_, err := f.svc.AddItem(ctx, f.token, p, 1)
	require.NoError(t, err)
	c, err := f.svc.AddItem(ctx, f.token, p, 5)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(200)))

	c, err = f.svc.RemoveItem(ctx, f.token, p)
	require.NoError(t, err)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(100)))

	c, err = f.svc.RemoveItem(ctx, f.token, p)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())

	stored, err := f.svc.Get(ctx, f.token)
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
}

func TestService_AddItemUnavailable(t *testing.T) {
	f := newFixture(t)
	p := f.products.Seed(5, "Book", "100", 0)

	_, err := f.svc.AddItem(context.Background(), f.token, p, 1)
	assert.ErrorIs(t, err, apperr.ErrProductUnavailable)

	_, err = f.svc.AddItem(context.Background(), f.token, 999, 1)
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)
}

func TestService_RemoveAndClearOnEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RemoveItem(ctx, f.token, 1)
	assert.ErrorIs(t, err, apperr.ErrCartEmpty)
	_, err = f.svc.Clear(ctx, f.token)
	assert.ErrorIs(t, err, apperr.ErrCartEmpty)
}

func TestService_ClearResetsTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.products.Seed(5, "Book", "12.50", 10)
	_, err := f.svc.AddItem(ctx, f.token, p, 1)
	require.NoError(t, err)

	c, err := f.svc.Clear(ctx, f.token)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestService_RequiresCustomerToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), "seller_x")
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestService_GetMissingCart(t *testing.T) {
	products := catalogtest.NewRepo()
	auth := sessiontest.NewAuth()
	svc := cart.NewService(carttest.NewRepo(), catalog.NewService(products, auth), auth, pgtest.NoTx{})

	_, err := svc.Get(context.Background(), auth.Login(77, session.RoleCustomer))
	assert.ErrorIs(t, err, apperr.ErrCartNotFound)
}

func TestService_AddItemNegativeQuantity(t *testing.T) {
	f := newFixture(t)
	p := f.products.Seed(5, "Book", "100", 10)

	_, err := f.svc.AddItem(context.Background(), f.token, p, -1)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.AddItem(context.Background(), f.token, p, 0)
	assert.NoError(t, err)
}

func TestService_RemoveProductsKeepsTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gone := f.products.Seed(5, "Book", "100", 10)
	kept := f.products.Seed(5, "Pen", "3", 10)

	_, err := f.svc.AddOne(ctx, 1, gone)
	require.NoError(t, err)
	_, err = f.svc.AddOne(ctx, 1, gone)
	require.NoError(t, err)

	_, err = f.carts.Create(ctx, 2)
	require.NoError(t, err)
	_, err = f.svc.AddOne(ctx, 2, gone)
	require.NoError(t, err)
	_, err = f.svc.AddOne(ctx, 2, kept)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveProducts(ctx, gone))

	c1, err := f.svc.CartFor(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c1.Items)
	assert.True(t, c1.Total.IsZero())
	_, err = f.svc.Clear(ctx, f.token)
	assert.ErrorIs(t, err, apperr.ErrCartEmpty)

	c2, err := f.svc.CartFor(ctx, 2)
	require.NoError(t, err)
	require.Len(t, c2.Items, 1)
	assert.Equal(t, kept, c2.Items[0].ProductID)
	assert.True(t, c2.Total.Equal(decimal.NewFromInt(3)))

	holders, err := f.carts.CustomersHolding(ctx, []int64{gone})
	require.NoError(t, err)
	assert.Empty(t, holders)
}
