// Package orderstest holds an in-memory orders.Repository for tests.
package orderstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/orders"
)

type Repo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]orders.Order
}

func NewRepo() *Repo { return &Repo{rows: map[int64]orders.Order{}} }

func (r *Repo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *Repo) Create(_ context.Context, o *orders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now().UTC()
	r.rows[o.ID] = clone(*o)
	return nil
}

func (r *Repo) Get(_ context.Context, id int64) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.rows[id]
	if !ok {
		return nil, apperr.ErrOrderNotFound
	}
	out := clone(o)
	return &out, nil
}

func (r *Repo) Lock(ctx context.Context, id int64) (*orders.Order, error) { return r.Get(ctx, id) }

func (r *Repo) SetStatus(_ context.Context, id int64, s orders.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.rows[id]
	if !ok {
		return apperr.ErrOrderNotFound
	}
	o.Status = s
	r.rows[id] = o
	return nil
}

func (r *Repo) ListByDate(_ context.Context, day time.Time) ([]orders.Order, error) {
	return r.filter(func(o orders.Order) bool { return o.Date.Equal(day) }), nil
}

func (r *Repo) ListAll(_ context.Context) ([]orders.Order, error) {
	return r.filter(func(orders.Order) bool { return true }), nil
}

func (r *Repo) ListByCustomer(_ context.Context, customerID int64) ([]orders.Order, error) {
	return r.filter(func(o orders.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *Repo) filter(keep func(orders.Order) bool) []orders.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []orders.Order{}
	for _, o := range r.rows {
		if keep(o) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func clone(o orders.Order) orders.Order {
	o.Items = append([]orders.Item{}, o.Items...)
	return o
}
