package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-shop/internal/account"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/go-chi/chi/v5"
)

type SellerAccounts interface {
	Register(ctx context.Context, in account.Registration) (*account.Seller, error)
	Login(ctx context.Context, cr account.Credentials) (*session.Session, error)
	Logout(ctx context.Context, token string) error
	Current(ctx context.Context, token string) (*account.Seller, error)
	Get(ctx context.Context, id int64) (*account.Seller, error)
	GetByMobile(ctx context.Context, sellerToken, mobile string) (*account.Seller, error)
	List(ctx context.Context) ([]account.Seller, error)
	Update(ctx context.Context, token string, u account.SellerUpdate) (*account.Seller, error)
	UpdateMobile(ctx context.Context, token string, mc account.MobileChange) (*account.Seller, error)
	UpdatePassword(ctx context.Context, token string, pc account.PasswordChange) error
	Delete(ctx context.Context, token string, id int64) (*account.Seller, error)
}

type SellersHandler struct {
	Accounts SellerAccounts
	Limiter  *IPLimiter
}

func (h *SellersHandler) Register(r chi.Router) {
	r.Post("/sellers", h.register)
	r.With(limit(h.Limiter)).Post("/sellers/login", h.login)
	r.Post("/sellers/logout", h.logout)
	r.Get("/sellers", h.list)
	r.Get("/sellers/me", h.current)
	r.Patch("/sellers/me", h.update)
	r.Put("/sellers/me/mobile", h.updateMobile)
	r.Put("/sellers/me/password", h.updatePassword)
	r.Get("/sellers/mobile/{mobile}", h.getByMobile)
	r.Get("/sellers/{id}", h.get)
	r.Delete("/sellers/{id}", h.delete)
}

func (h *SellersHandler) register(w http.ResponseWriter, r *http.Request) {
	var req account.Registration
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	s, err := h.Accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *SellersHandler) login(w http.ResponseWriter, r *http.Request) {
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

func (h *SellersHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), token(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "logged out"})
}

func (h *SellersHandler) list(w http.ResponseWriter, r *http.Request) {
	ss, err := h.Accounts.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

func (h *SellersHandler) current(w http.ResponseWriter, r *http.Request) {
	s, err := h.Accounts.Current(r.Context(), token(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SellersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.Accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SellersHandler) getByMobile(w http.ResponseWriter, r *http.Request) {
	s, err := h.Accounts.GetByMobile(r.Context(), token(r), chi.URLParam(r, "mobile"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SellersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req account.SellerUpdate
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	s, err := h.Accounts.Update(r.Context(), token(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SellersHandler) updateMobile(w http.ResponseWriter, r *http.Request) {
	var req account.MobileChange
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	s, err := h.Accounts.UpdateMobile(r.Context(), token(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SellersHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
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

func (h *SellersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.Accounts.Delete(r.Context(), token(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
