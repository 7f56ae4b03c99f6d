package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop/internal/account"
	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/orders"
	"github.com/go-chi/chi/v5"
)

type Orders interface {
	Place(ctx context.Context, token string, req orders.PlaceRequest) (*orders.Order, error)
	Cancel(ctx context.Context, token string, orderID int64) (*orders.Order, error)
	Get(ctx context.Context, id int64) (*orders.Order, error)
	ListByDate(ctx context.Context, day time.Time) ([]orders.Order, error)
	ListAll(ctx context.Context) ([]orders.Order, error)
	CustomerByOrder(ctx context.Context, orderID int64) (*account.Customer, error)
	ListForCustomer(ctx context.Context, token string) ([]orders.Order, error)
}

type OrdersHandler struct {
	Orders Orders
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.place)
	r.Get("/orders", h.listAll)
	r.Get("/orders/date/{date}", h.listByDate)
	r.Get("/orders/{id}", h.get)
	r.Get("/orders/{id}/customer", h.customer)
	r.Delete("/orders/{id}", h.cancel)
	r.Get("/customers/me/orders", h.mine)
}

func (h *OrdersHandler) place(w http.ResponseWriter, r *http.Request) {
	var req orders.PlaceRequest
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	o, err := h.Orders.Place(r.Context(), token(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := h.Orders.Cancel(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) listByDate(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse(time.DateOnly, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.KindValidation, "date must be YYYY-MM-DD"))
		return
	}
	list, err := h.Orders.ListByDate(r.Context(), day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) customer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Orders.CustomerByOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *OrdersHandler) mine(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListForCustomer(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
