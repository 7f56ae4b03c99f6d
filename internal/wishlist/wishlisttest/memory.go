// Package wishlisttest holds an in-memory wishlist.Repository for tests.
package wishlisttest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/wishlist"
)

type key struct{ customer, product int64 }

type Repo struct {
	mu     sync.Mutex
	nextID int64
	now    time.Time
	rows   map[key]wishlist.Item
}

func NewRepo() *Repo {
	return &Repo{rows: map[key]wishlist.Item{}, now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *Repo) Add(_ context.Context, customerID, productID int64) (*wishlist.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{customerID, productID}
	if _, ok := r.rows[k]; ok {
		return nil, apperr.ErrAlreadyWishlisted
	}
	r.nextID++
	r.now = r.now.Add(time.Minute)
	it := wishlist.Item{ID: r.nextID, ProductID: productID, AddedAt: r.now}
	r.rows[k] = it
	return &it, nil
}

func (r *Repo) List(_ context.Context, customerID int64) ([]wishlist.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []wishlist.Item{}
	for k, it := range r.rows {
		if k.customer == customerID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (r *Repo) Remove(_ context.Context, customerID, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{customerID, productID}
	if _, ok := r.rows[k]; !ok {
		return apperr.ErrItemNotFound
	}
	delete(r.rows, k)
	return nil
}

func (r *Repo) Exists(_ context.Context, customerID, productID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[key{customerID, productID}]
	return ok, nil
}
