package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/go-chi/chi/v5"
)

type Carts interface {
	Get(ctx context.Context, token string) (*cart.Cart, error)
	AddItem(ctx context.Context, token string, productID int64, qty int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, token string, productID int64) (*cart.Cart, error)
	Clear(ctx context.Context, token string) (*cart.Cart, error)
}

type CartHandler struct {
	Carts Carts
}

type addItemReq struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity" validate:"gte=0"`
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.get)
	r.Post("/cart/items", h.addItem)
	r.Delete("/cart/items/{productId}", h.removeItem)
	r.Delete("/cart", h.clear)
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Get(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	c, err := h.Carts.AddItem(r.Context(), token(r), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Carts.RemoveItem(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Clear(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
