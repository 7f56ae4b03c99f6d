package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCarts struct {
	mock.Mock
}

func (m *mockCarts) cart(args mock.Arguments) (*cart.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *mockCarts) Get(ctx context.Context, token string) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, token))
}

func (m *mockCarts) AddItem(ctx context.Context, token string, productID int64, qty int) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, token, productID, qty))
}

func (m *mockCarts) RemoveItem(ctx context.Context, token string, productID int64) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, token, productID))
}

func (m *mockCarts) Clear(ctx context.Context, token string) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, token))
}

func cartRouter(m *mockCarts) *chi.Mux {
	r := chi.NewRouter()
	(&CartHandler{Carts: m}).Register(r)
	return r
}

func TestCartHandler_ErrorMapping(t *testing.T) {
	m := new(mockCarts)
	m.On("Clear", mock.Anything, "customer_abc").Return(nil, apperr.ErrCartEmpty)
	m.On("AddItem", mock.Anything, "customer_abc", int64(4), 1).Return(nil, apperr.ErrProductUnavailable)
	m.On("RemoveItem", mock.Anything, "customer_abc", int64(9)).Return(nil, apperr.ErrItemNotFound)
	router := cartRouter(m)

	cases := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"clear empty cart", httptest.NewRequest(http.MethodDelete, "/cart", nil), http.StatusBadRequest},
		{"add unavailable product", httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"productId":4}`)), http.StatusConflict},
		{"remove missing line", httptest.NewRequest(http.MethodDelete, "/cart/items/9", nil), http.StatusNotFound},
		{"negative quantity", httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"productId":4,"quantity":-2}`)), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.Header.Set("token", "customer_abc")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tc.req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	m.AssertExpectations(t)
	m.AssertNumberOfCalls(t, "AddItem", 1)
}
