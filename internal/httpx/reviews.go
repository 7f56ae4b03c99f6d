package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/review"
	"github.com/go-chi/chi/v5"
)

type Reviews interface {
	Add(ctx context.Context, token string, productID int64, req review.Request) (*review.Review, error)
	Update(ctx context.Context, token string, id int64, req review.Request) (*review.Review, error)
	Delete(ctx context.Context, token string, id int64) (*review.Review, error)
	Approve(ctx context.Context, sellerToken string, id int64) (*review.Review, error)
	ProductReviews(ctx context.Context, productID int64, page, size int) (catalog.Page[review.Review], error)
	Summary(ctx context.Context, productID int64) (review.Summary, error)
}

type ReviewsHandler struct {
	Reviews Reviews
}

func (h *ReviewsHandler) Register(r chi.Router) {
	r.Post("/products/{id}/reviews", h.add)
	r.Get("/products/{id}/reviews", h.list)
	r.Get("/products/{id}/reviews/summary", h.summary)
	r.Put("/reviews/{id}", h.update)
	r.Delete("/reviews/{id}", h.delete)
	r.Put("/reviews/{id}/approve", h.approve)
}

func (h *ReviewsHandler) add(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req review.Request
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	rv, err := h.Reviews.Add(r.Context(), token(r), pid, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *ReviewsHandler) list(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.Reviews.ProductReviews(r.Context(), pid, queryInt(r, "page", 0), queryInt(r, "size", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ReviewsHandler) summary(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.Reviews.Summary(r.Context(), pid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ReviewsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req review.Request
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	rv, err := h.Reviews.Update(r.Context(), token(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *ReviewsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rv, err := h.Reviews.Delete(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *ReviewsHandler) approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rv, err := h.Reviews.Approve(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}
