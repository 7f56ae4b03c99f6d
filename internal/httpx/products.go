package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Catalog interface {
	Create(ctx context.Context, sellerToken string, in catalog.NewProduct) (*catalog.Product, error)
	Get(ctx context.Context, id int64) (*catalog.Product, error)
	Update(ctx context.Context, sellerToken string, id int64, u catalog.ProductUpdate) (*catalog.Product, error)
	Delete(ctx context.Context, sellerToken string, id int64) (*catalog.Product, error)
	List(ctx context.Context) ([]catalog.Product, error)
	ByCategory(ctx context.Context, c catalog.Category) ([]catalog.Product, error)
	ByStatus(ctx context.Context, st catalog.Status) ([]catalog.Product, error)
	BySeller(ctx context.Context, sellerID int64) ([]catalog.Product, error)
	Search(ctx context.Context, f catalog.Filter) (catalog.Page[catalog.Product], error)
	AdjustQuantity(ctx context.Context, sellerToken string, id int64, delta int) (*catalog.Product, error)
}

type ProductsHandler struct {
	Catalog Catalog
}

type quantityReq struct {
	Delta int `json:"quantity" validate:"required"`
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Post("/products", h.create)
	r.Get("/products", h.list)
	r.Get("/products/search", h.search)
	r.Get("/products/category/{category}", h.byCategory)
	r.Get("/products/status/{status}", h.byStatus)
	r.Get("/products/{id}", h.get)
	r.Patch("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
	r.Patch("/products/{id}/quantity", h.adjustQuantity)
	r.Get("/sellers/{id}/products", h.bySeller)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req catalog.NewProduct
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	p, err := h.Catalog.Create(r.Context(), token(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req catalog.ProductUpdate
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	p, err := h.Catalog.Update(r.Context(), token(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Catalog.Delete(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) adjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req quantityReq
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	p, err := h.Catalog.AdjustQuantity(r.Context(), token(r), id, req.Delta)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) byCategory(w http.ResponseWriter, r *http.Request) {
	c := catalog.Category(strings.ToUpper(chi.URLParam(r, "category")))
	ps, err := h.Catalog.ByCategory(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) byStatus(w http.ResponseWriter, r *http.Request) {
	st := catalog.Status(strings.ToUpper(chi.URLParam(r, "status")))
	ps, err := h.Catalog.ByStatus(r.Context(), st)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) bySeller(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ps, err := h.Catalog.BySeller(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) search(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.Catalog.Search(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.Filter{
		Keyword:      q.Get("keyword"),
		Category:     catalog.Category(strings.ToUpper(q.Get("category"))),
		Status:       catalog.Status(strings.ToUpper(q.Get("status"))),
		Manufacturer: q.Get("manufacturer"),
		SortBy:       q.Get("sortBy"),
		SortDesc:     strings.EqualFold(q.Get("sortDirection"), "desc"),
		Page:         queryInt(r, "page", 0),
		Size:         queryInt(r, "size", 0),
	}
	if v := q.Get("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, apperr.New(apperr.KindValidation, "invalid minPrice")
		}
		f.MinPrice = &d
	}
	if v := q.Get("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, apperr.New(apperr.KindValidation, "invalid maxPrice")
		}
		f.MaxPrice = &d
	}
	if v := q.Get("minRating"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, apperr.New(apperr.KindValidation, "invalid minRating")
		}
		f.MinRating = &x
	}
	if v := q.Get("sellerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, apperr.New(apperr.KindValidation, "invalid sellerId")
		}
		f.SellerID = id
	}
	return f, nil
}
