package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/inventory"
	"github.com/go-chi/chi/v5"
)

type Alerts interface {
	Create(ctx context.Context, token string, req inventory.Request) (*inventory.View, error)
	Update(ctx context.Context, token string, id int64, req inventory.Request) (*inventory.View, error)
	Delete(ctx context.Context, token string, id int64) error
	Get(ctx context.Context, token string, id int64) (*inventory.View, error)
	Toggle(ctx context.Context, token string, id int64, enabled bool) (*inventory.View, error)
	GetByProduct(ctx context.Context, token string, productID int64) (*inventory.View, error)
	ListForSeller(ctx context.Context, token string) ([]inventory.View, error)
	ListEnabledForSeller(ctx context.Context, token string) ([]inventory.View, error)
	ListTriggeredForSeller(ctx context.Context, token string) ([]inventory.Summary, error)
	ListAllTriggered(ctx context.Context) ([]inventory.Summary, error)
}

type AlertsHandler struct {
	Alerts Alerts
}

func (h *AlertsHandler) Register(r chi.Router) {
	r.Post("/inventory-alerts", h.create)
	r.Get("/inventory-alerts", h.list)
	r.Get("/inventory-alerts/enabled", h.listEnabled)
	r.Get("/inventory-alerts/triggered", h.listTriggered)
	r.Get("/inventory-alerts/triggered/all", h.listAllTriggered)
	r.Get("/inventory-alerts/product/{productId}", h.getByProduct)
	r.Get("/inventory-alerts/{id}", h.get)
	r.Put("/inventory-alerts/{id}", h.update)
	r.Patch("/inventory-alerts/{id}/toggle", h.toggle)
	r.Delete("/inventory-alerts/{id}", h.delete)
}

func (h *AlertsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req inventory.Request
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	v, err := h.Alerts.Create(r.Context(), token(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *AlertsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req inventory.Request
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	v, err := h.Alerts.Update(r.Context(), token(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *AlertsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Alerts.Delete(r.Context(), token(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "inventory alert deleted"})
}

func (h *AlertsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Alerts.Get(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *AlertsHandler) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.KindValidation, "enabled must be true or false"))
		return
	}
	v, err := h.Alerts.Toggle(r.Context(), token(r), id, enabled)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *AlertsHandler) getByProduct(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Alerts.GetByProduct(r.Context(), token(r), pid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *AlertsHandler) list(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Alerts.ListForSeller(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *AlertsHandler) listEnabled(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Alerts.ListEnabledForSeller(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *AlertsHandler) listTriggered(w http.ResponseWriter, r *http.Request) {
	ss, err := h.Alerts.ListTriggeredForSeller(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

func (h *AlertsHandler) listAllTriggered(w http.ResponseWriter, r *http.Request) {
	ss, err := h.Alerts.ListAllTriggered(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ss)
}
