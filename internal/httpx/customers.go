package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-shop/internal/account"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/go-chi/chi/v5"
)

type CustomerAccounts interface {
	Register(ctx context.Context, in account.Registration) (*account.Customer, error)
	Login(ctx context.Context, cr account.Credentials) (*session.Session, error)
	Logout(ctx context.Context, token string) error
	Current(ctx context.Context, token string) (*account.Customer, error)
	Get(ctx context.Context, id int64) (*account.Customer, error)
	List(ctx context.Context, sellerToken string) ([]account.Customer, error)
	Update(ctx context.Context, token string, u account.ProfileUpdate) (*account.Customer, error)
	UpdatePassword(ctx context.Context, token string, pc account.PasswordChange) error
	UpsertAddress(ctx context.Context, token, kind string, addr account.Address) (*account.Customer, error)
	DeleteAddress(ctx context.Context, token, kind string) (*account.Customer, error)
	UpdateCreditCard(ctx context.Context, token string, card account.CreditCard) (*account.Customer, error)
	Delete(ctx context.Context, token string, cr account.Credentials) error
}

type CustomersHandler struct {
	Accounts CustomerAccounts
	Limiter  *IPLimiter
}

type messageResp struct {
	Message string `json:"message"`
}

func (h *CustomersHandler) Register(r chi.Router) {
	r.Post("/customers", h.register)
	r.With(limit(h.Limiter)).Post("/customers/login", h.login)
	r.Post("/customers/logout", h.logout)
	r.Get("/customers", h.list)
	r.Get("/customers/me", h.current)
	r.Patch("/customers/me", h.update)
	r.Delete("/customers/me", h.delete)
	r.Put("/customers/me/password", h.updatePassword)
	r.Put("/customers/me/addresses/{type}", h.upsertAddress)
	r.Delete("/customers/me/addresses/{type}", h.deleteAddress)
	r.Put("/customers/me/card", h.updateCard)
	r.Get("/customers/{id}", h.get)
}

// limit returns a pass-through middleware when no limiter is configured.
func limit(l *IPLimiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Middleware
}

func (h *CustomersHandler) register(w http.ResponseWriter, r *http.Request) {
	var req account.Registration
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	c, err := h.Accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req account.Credentials
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	s, err := h.Accounts.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CustomersHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), token(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "logged out"})
}

func (h *CustomersHandler) current(w http.ResponseWriter, r *http.Request) {
	c, err := h.Accounts.Current(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) list(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Accounts.List(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CustomersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req account.ProfileUpdate
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	c, err := h.Accounts.Update(r.Context(), token(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req account.PasswordChange
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if err := h.Accounts.UpdatePassword(r.Context(), token(r), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "password updated, please log in again"})
}

func (h *CustomersHandler) upsertAddress(w http.ResponseWriter, r *http.Request) {
	var req account.Address
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	c, err := h.Accounts.UpsertAddress(r.Context(), token(r), chi.URLParam(r, "type"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	c, err := h.Accounts.DeleteAddress(r.Context(), token(r), chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) updateCard(w http.ResponseWriter, r *http.Request) {
	var req account.CreditCard
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	c, err := h.Accounts.UpdateCreditCard(r.Context(), token(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) delete(w http.ResponseWriter, r *http.Request) {
	var req account.Credentials
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if err := h.Accounts.Delete(r.Context(), token(r), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "account deleted"})
}
