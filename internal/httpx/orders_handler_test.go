package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop/internal/account"
	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) Place(ctx context.Context, token string, req orders.PlaceRequest) (*orders.Order, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.Order), args.Error(1)
}

func (m *mockOrders) Cancel(ctx context.Context, token string, orderID int64) (*orders.Order, error) {
	args := m.Called(ctx, token, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.Order), args.Error(1)
}

func (m *mockOrders) Get(ctx context.Context, id int64) (*orders.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.Order), args.Error(1)
}

func (m *mockOrders) ListByDate(ctx context.Context, day time.Time) ([]orders.Order, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orders.Order), args.Error(1)
}

func (m *mockOrders) ListAll(ctx context.Context) ([]orders.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orders.Order), args.Error(1)
}

func (m *mockOrders) CustomerByOrder(ctx context.Context, orderID int64) (*account.Customer, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Customer), args.Error(1)
}

func (m *mockOrders) ListForCustomer(ctx context.Context, token string) ([]orders.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orders.Order), args.Error(1)
}

func ordersRouter(m *mockOrders) *chi.Mux {
	r := chi.NewRouter()
	(&OrdersHandler{Orders: m}).Register(r)
	return r
}

func TestOrdersHandler_Place(t *testing.T) {
	m := new(mockOrders)
	placed := &orders.Order{ID: 11, CustomerID: 3, Status: orders.StatusSuccess, Total: decimal.NewFromInt(30)}
	m.On("Place", mock.Anything, "customer_tok", mock.MatchedBy(func(req orders.PlaceRequest) bool {
		return req.AddressType == "home" && req.Card.CardNumber == "4111111111111111"
	})).Return(placed, nil)

	body := `{"addressType":"home","creditCard":{"cardNumber":"4111111111111111","cardValidity":"12/30","cardCVV":"123"}}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("token", "customer_tok")
	rec := httptest.NewRecorder()
	ordersRouter(m).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(11), got["orderId"])
	assert.Equal(t, "SUCCESS", got["orderStatus"])
	m.AssertExpectations(t)
}

func TestOrdersHandler_PlaceEmptyCart(t *testing.T) {
	m := new(mockOrders)
	m.On("Place", mock.Anything, "customer_tok", mock.Anything).Return(nil, apperr.ErrEmptyCart)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"addressType":"home"}`))
	req.Header.Set("token", "customer_tok")
	rec := httptest.NewRecorder()
	ordersRouter(m).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"no products in cart"}`, rec.Body.String())
}

func TestOrdersHandler_CancelNotOwner(t *testing.T) {
	m := new(mockOrders)
	m.On("Cancel", mock.Anything, "customer_other", int64(5)).Return(nil, apperr.ErrNotOwner)

	req := httptest.NewRequest(http.MethodDelete, "/orders/5", nil)
	req.Header.Set("token", "customer_other")
	rec := httptest.NewRecorder()
	ordersRouter(m).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	m.AssertExpectations(t)
}

func TestOrdersHandler_GetBadID(t *testing.T) {
	m := new(mockOrders)
	rec := httptest.NewRecorder()
	ordersRouter(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestOrdersHandler_ListByDate(t *testing.T) {
	m := new(mockOrders)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	m.On("ListByDate", mock.Anything, day).Return([]orders.Order{{ID: 1}, {ID: 2}}, nil)

	rec := httptest.NewRecorder()
	ordersRouter(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/date/2024-05-01", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	rec = httptest.NewRecorder()
	ordersRouter(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/date/01-05-2024", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
