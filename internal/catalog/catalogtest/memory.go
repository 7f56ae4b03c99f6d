// Package catalogtest holds an in-memory catalog.Repository for tests.
package catalogtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/shopspring/decimal"
)

type Repo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]catalog.Product
}

func NewRepo() *Repo { return &Repo{rows: map[int64]catalog.Product{}} }

// Seed stores a product with the given price and quantity and returns its id.
func (r *Repo) Seed(sellerID int64, name string, price string, qty int) int64 {
	p := &catalog.Product{
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Manufacturer: "acme",
		Quantity:     qty,
		Status:       catalog.StatusFor(qty),
		Category:     catalog.CategoryElectronics,
		SellerID:     sellerID,
	}
	_ = r.Create(context.Background(), p)
	return p.ID
}

// Quantity returns the stored on-hand quantity, or -1 when the product does not exist.
func (r *Repo) Quantity(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return -1
	}
	return p.Quantity
}

func (r *Repo) Snapshot(id int64) catalog.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

func (r *Repo) Create(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.rows[p.ID] = *p
	return nil
}

func (r *Repo) Get(_ context.Context, id int64) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, apperr.ErrProductNotFound
	}
	return &p, nil
}

func (r *Repo) Update(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[p.ID]
	if !ok {
		return apperr.ErrProductNotFound
	}
	cur.Name, cur.Price, cur.Description, cur.Manufacturer, cur.Category =
		p.Name, p.Price, p.Description, p.Manufacturer, p.Category
	r.rows[p.ID] = cur
	return nil
}

func (r *Repo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperr.ErrProductNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Repo) List(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	out, _, err := r.filter(f)
	return out, err
}

func (r *Repo) Search(_ context.Context, f catalog.Filter) ([]catalog.Product, int64, error) {
	all, total, err := r.filter(f)
	if err != nil {
		return nil, 0, err
	}
	from := f.Page * f.Size
	if from > len(all) {
		from = len(all)
	}
	to := from + f.Size
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], total, nil
}

func (r *Repo) filter(f catalog.Filter) ([]catalog.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []catalog.Product{}
	kw := strings.ToLower(f.Keyword)
	for _, p := range r.rows {
		switch {
		case kw != "" && !strings.Contains(strings.ToLower(p.Name), kw) && !strings.Contains(strings.ToLower(p.Description), kw):
		case f.Category != "" && p.Category != f.Category:
		case f.Status != "" && p.Status != f.Status:
		case f.MinPrice != nil && p.Price.LessThan(*f.MinPrice):
		case f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice):
		case f.MinRating != nil && p.AverageRating < *f.MinRating:
		case f.Manufacturer != "" && !strings.EqualFold(p.Manufacturer, f.Manufacturer):
		case f.SellerID != 0 && p.SellerID != f.SellerID:
		default:
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		less := out[i].ID < out[j].ID
		switch f.SortBy {
		case "price":
			less = out[i].Price.LessThan(out[j].Price)
		case "rating":
			less = out[i].AverageRating < out[j].AverageRating
		case "name":
			less = out[i].Name < out[j].Name
		}
		if f.SortDesc {
			return !less
		}
		return less
	})
	return out, int64(len(out)), nil
}

func (r *Repo) LockQuantities(_ context.Context, ids []int64) (map[int64]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int64]int{}
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			out[id] = p.Quantity
		}
	}
	return out, nil
}

func (r *Repo) Decrement(_ context.Context, id int64, n int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok || p.Quantity < n {
		return false, nil
	}
	p.Quantity -= n
	p.Status = catalog.StatusFor(p.Quantity)
	r.rows[id] = p
	return true, nil
}

func (r *Repo) Increment(_ context.Context, id int64, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil
	}
	p.Quantity += n
	p.Status = catalog.StatusFor(p.Quantity)
	r.rows[id] = p
	return nil
}

func (r *Repo) AddQuantity(_ context.Context, id int64, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok || p.Quantity+delta < 0 {
		return 0, apperr.ErrInsufficientStock
	}
	p.Quantity += delta
	p.Status = catalog.StatusFor(p.Quantity)
	r.rows[id] = p
	return p.Quantity, nil
}

func (r *Repo) SetRating(_ context.Context, id int64, avg float64, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return apperr.ErrProductNotFound
	}
	p.AverageRating, p.ReviewCount = avg, count
	r.rows[id] = p
	return nil
}
