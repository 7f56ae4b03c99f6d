// Package inventorytest holds an in-memory inventory.Repository for tests.
package inventorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/inventory"
)

type Repo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]inventory.Alert
}

func NewRepo() *Repo { return &Repo{rows: map[int64]inventory.Alert{}} }

func (r *Repo) Create(_ context.Context, a *inventory.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.ProductID == a.ProductID {
			return apperr.ErrAlertAlreadyExists
		}
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	r.rows[a.ID] = *a
	return nil
}

func (r *Repo) Get(_ context.Context, id int64) (*inventory.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, apperr.ErrAlertNotFound
	}
	return &a, nil
}

func (r *Repo) GetByProduct(_ context.Context, productID int64) (*inventory.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.ProductID == productID {
			return &a, nil
		}
	}
	return nil, apperr.ErrAlertNotFound
}

func (r *Repo) Update(_ context.Context, a *inventory.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[a.ID]; !ok {
		return apperr.ErrAlertNotFound
	}
	for _, e := range r.rows {
		if e.ID != a.ID && e.ProductID == a.ProductID {
			return apperr.ErrAlertAlreadyExists
		}
	}
	r.rows[a.ID] = *a
	return nil
}

func (r *Repo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperr.ErrAlertNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Repo) ListBySeller(_ context.Context, sellerID int64, enabledOnly bool) ([]inventory.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []inventory.Alert{}
	for _, a := range r.rows {
		if (sellerID == 0 || a.SellerID == sellerID) && (!enabledOnly || a.Enabled) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) RecordSent(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return apperr.ErrAlertNotFound
	}
	a.LastAlertSentAt = &at
	a.AlertCount++
	r.rows[id] = a
	return nil
}
