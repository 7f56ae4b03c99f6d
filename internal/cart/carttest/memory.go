// Package carttest holds an in-memory cart.Repository for tests.
package carttest

import (
	"context"
	"slices"
	"sync"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/shopspring/decimal"
)

type Repo struct {
	mu     sync.Mutex
	nextID int64
	carts  map[int64]cart.Cart // by customer
}

func NewRepo() *Repo { return &Repo{carts: map[int64]cart.Cart{}} }

func (r *Repo) Create(_ context.Context, customerID int64) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := cart.Cart{ID: r.nextID, CustomerID: customerID, Items: []cart.Item{}, Total: decimal.Zero}
	r.carts[customerID] = c
	return clone(c), nil
}

func (r *Repo) ByCustomer(_ context.Context, customerID int64) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[customerID]
	if !ok {
		return nil, apperr.ErrCartNotFound
	}
	return clone(c), nil
}

func (r *Repo) Save(_ context.Context, c *cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[c.CustomerID]; !ok {
		return apperr.ErrCartNotFound
	}
	r.carts[c.CustomerID] = *clone(*c)
	return nil
}

func (r *Repo) CustomersHolding(_ context.Context, productIDs []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int64
	for cid, c := range r.carts {
		for _, it := range c.Items {
			if slices.Contains(productIDs, it.ProductID) {
				out = append(out, cid)
				break
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func clone(c cart.Cart) *cart.Cart {
	c.Items = append([]cart.Item{}, c.Items...)
	return &c
}

