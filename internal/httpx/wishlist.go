package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/ariefcatur/go-shop/internal/wishlist"
	"github.com/go-chi/chi/v5"
)

type Wishlists interface {
	Add(ctx context.Context, token string, productID int64) (*wishlist.Item, error)
	List(ctx context.Context, token string) ([]wishlist.Item, error)
	Remove(ctx context.Context, token string, productID int64) error
	IsWishlisted(ctx context.Context, token string, productID int64) (bool, error)
	MoveToCart(ctx context.Context, token string, productID int64) (*cart.Cart, error)
}

type WishlistHandler struct {
	Wishlists Wishlists
}

func (h *WishlistHandler) Register(r chi.Router) {
	r.Get("/wishlist", h.list)
	r.Post("/wishlist/{productId}", h.add)
	r.Get("/wishlist/{productId}", h.check)
	r.Delete("/wishlist/{productId}", h.remove)
	r.Post("/wishlist/{productId}/move-to-cart", h.moveToCart)
}

func (h *WishlistHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Wishlists.List(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *WishlistHandler) add(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	it, err := h.Wishlists.Add(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *WishlistHandler) check(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.Wishlists.IsWishlisted(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"wishlisted": ok})
}

func (h *WishlistHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Wishlists.Remove(r.Context(), token(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "removed from wishlist"})
}

func (h *WishlistHandler) moveToCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Wishlists.MoveToCart(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
