// Package reviewtest holds an in-memory review.Repository for tests.
package reviewtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/review"
)

type Repo struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	rows   map[int64]review.Review
}

func NewRepo() *Repo {
	return &Repo{rows: map[int64]review.Review{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *Repo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *Repo) Create(_ context.Context, rv *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if !e.IsDeleted && e.CustomerID == rv.CustomerID && e.ProductID == rv.ProductID {
			return apperr.ErrDuplicateReview
		}
	}
	r.nextID++
	rv.ID = r.nextID
	rv.CreatedAt = r.tick()
	rv.UpdatedAt = rv.CreatedAt
	r.rows[rv.ID] = *rv
	return nil
}

func (r *Repo) Get(_ context.Context, id int64) (*review.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.rows[id]
	if !ok || rv.IsDeleted {
		return nil, apperr.ErrReviewNotFound
	}
	return &rv, nil
}

func (r *Repo) Update(_ context.Context, rv *review.Review) error {
	return r.change(rv.ID, func(e *review.Review) {
		e.Rating, e.Title, e.Comment = rv.Rating, rv.Title, rv.Comment
	})
}

func (r *Repo) SoftDelete(_ context.Context, id int64) error {
	return r.change(id, func(e *review.Review) { e.IsDeleted = true })
}

func (r *Repo) Approve(_ context.Context, id int64) error {
	return r.change(id, func(e *review.Review) { e.IsApproved = true })
}

func (r *Repo) change(id int64, fn func(e *review.Review)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok || e.IsDeleted {
		return apperr.ErrReviewNotFound
	}
	fn(&e)
	e.UpdatedAt = r.tick()
	r.rows[id] = e
	return nil
}

func (r *Repo) live(productID int64) []review.Review {
	out := []review.Review{}
	for _, e := range r.rows {
		if e.ProductID == productID && e.IsApproved && !e.IsDeleted {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *Repo) ListApproved(_ context.Context, productID int64, page, size int) ([]review.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.live(productID)
	lo := min(page*size, len(all))
	hi := min(lo+size, len(all))
	return all[lo:hi], int64(len(all)), nil
}

func (r *Repo) Stats(_ context.Context, productID int64) (float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.live(productID)
	if len(all) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, e := range all {
		sum += e.Rating
	}
	return float64(sum) / float64(len(all)), int64(len(all)), nil
}
