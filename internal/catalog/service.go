package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/events"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/rs/zerolog/log"
)

type Authenticator interface {
	Validate(ctx context.Context, token string, expected session.Role) (*session.Session, error)
}

// Cache is a best-effort product cache (see redisx.JSONCache).
type Cache interface {
	Get(ctx context.Context, id int64) (*Product, bool)
	Set(ctx context.Context, id int64, p *Product)
	Del(ctx context.Context, id int64)
}

// CartPurger takes products out of customer carts before they are deleted.
type CartPurger interface {
	RemoveProducts(ctx context.Context, productIDs ...int64) error
}

type noCarts struct{}

func (noCarts) RemoveProducts(context.Context, ...int64) error { return nil }

type directTx struct{}

func (directTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type noCache struct{}

func (noCache) Get(context.Context, int64) (*Product, bool) { return nil, false }
func (noCache) Set(context.Context, int64, *Product)        {}
func (noCache) Del(context.Context, int64)                  {}

type Service struct {
	repo     Repository
	auth     Authenticator
	cache    Cache
	stock    events.Publisher
	producer string
	carts    CartPurger
	tx       postgres.Transactor
}

func NewService(repo Repository, auth Authenticator) *Service {
	return &Service{repo: repo, auth: auth, cache: noCache{}, stock: events.Discard{}, carts: noCarts{}, tx: directTx{}}
}

// WithCarts makes deletes clear the product out of carts in the same transaction.
func (s *Service) WithCarts(c CartPurger, tx postgres.Transactor) *Service {
	s.carts = c
	s.tx = tx
	return s
}

func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// WithStockEvents publishes StockChanged after manual quantity adjustments.
func (s *Service) WithStockEvents(p events.Publisher, producer string) *Service {
	s.stock = p
	s.producer = producer
	return s
}

func (s *Service) Create(ctx context.Context, sellerToken string, in NewProduct) (*Product, error) {
	sess, err := s.auth.Validate(ctx, sellerToken, session.RoleSeller)
	if err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "price must not be negative")
	}
	if !in.Category.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown category %q", in.Category)
	}
	if in.Quantity < 0 {
		return nil, apperr.New(apperr.KindValidation, "quantity must not be negative")
	}
	p := &Product{
		Name:         strings.TrimSpace(in.Name),
		Price:        in.Price,
		Description:  in.Description,
		Manufacturer: in.Manufacturer,
		Quantity:     in.Quantity,
		Status:       StatusFor(in.Quantity),
		Category:     in.Category,
		SellerID:     sess.UserID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Int64("product_id", p.ID).Int64("seller_id", p.SellerID).Msg("product created")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok && p != nil {
		return p, nil
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, id, p)
	return p, nil
}

// owned loads the product straight from the repository and checks the seller owns it.
func (s *Service) owned(ctx context.Context, sellerToken string, id int64) (*Product, error) {
	sess, err := s.auth.Validate(ctx, sellerToken, session.RoleSeller)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sess.UserID {
		return nil, apperr.Newf(apperr.KindNotOwner, "product %d belongs to another seller", id)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, sellerToken string, id int64, u ProductUpdate) (*Product, error) {
	p, err := s.owned(ctx, sellerToken, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Price != nil {
		if u.Price.IsNegative() {
			return nil, apperr.New(apperr.KindValidation, "price must not be negative")
		}
		p.Price = *u.Price
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Manufacturer != nil {
		p.Manufacturer = *u.Manufacturer
	}
	if u.Category != nil {
		if !u.Category.Valid() {
			return nil, apperr.Newf(apperr.KindValidation, "unknown category %q", *u.Category)
		}
		p.Category = *u.Category
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Del(ctx, id)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, sellerToken string, id int64) (*Product, error) {
	p, err := s.owned(ctx, sellerToken, id)
	if err != nil {
		return nil, err
	}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.carts.RemoveProducts(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Del(ctx, id)
	log.Info().Int64("product_id", id).Msg("product deleted")
	return p, nil
}

// PurgeSeller takes every product of the seller out of carts; the products
// themselves go with the seller row.
func (s *Service) PurgeSeller(ctx context.Context, sellerID int64) error {
	ps, err := s.BySeller(ctx, sellerID)
	if err != nil {
		return err
	}
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	if err := s.carts.RemoveProducts(ctx, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		s.cache.Del(ctx, id)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx, Filter{SortBy: "name"})
}

func (s *Service) ByCategory(ctx context.Context, c Category) ([]Product, error) {
	if !c.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown category %q", c)
	}
	return s.repo.List(ctx, Filter{Category: c, SortBy: "name"})
}

func (s *Service) ByStatus(ctx context.Context, st Status) ([]Product, error) {
	if !st.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown status %q", st)
	}
	return s.repo.List(ctx, Filter{Status: st, SortBy: "name"})
}

func (s *Service) BySeller(ctx context.Context, sellerID int64) ([]Product, error) {
	return s.repo.List(ctx, Filter{SellerID: sellerID, SortBy: "name"})
}

func (s *Service) Search(ctx context.Context, f Filter) (Page[Product], error) {
	f.Normalize()
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return Page[Product]{}, apperr.New(apperr.KindValidation, "minPrice must not exceed maxPrice")
	}
	items, total, err := s.repo.Search(ctx, f)
	if err != nil {
		return Page[Product]{}, err
	}
	return NewPage(items, total, f.Page, f.Size), nil
}

// AdjustQuantity adds delta (may be negative) to the on-hand quantity of a product the seller owns.
func (s *Service) AdjustQuantity(ctx context.Context, sellerToken string, id int64, delta int) (*Product, error) {
	p, err := s.owned(ctx, sellerToken, id)
	if err != nil {
		return nil, err
	}
	qty, err := s.repo.AddQuantity(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	p.Quantity = qty
	p.Status = StatusFor(qty)
	s.cache.Del(ctx, id)
	s.publishStock(ctx, []int64{id}, events.StockReasonRestock)
	return p, nil
}

// Reserve takes every line out of stock or none of them. Run it inside a
// transaction: the rows are locked, checked as a whole, then decremented
// with a conditional update that re-checks each quantity.
func (s *Service) Reserve(ctx context.Context, lines []Line) error {
	lines = MergeLines(lines)
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return apperr.Newf(apperr.KindValidation, "invalid quantity for product %d", l.ProductID)
		}
		ids = append(ids, l.ProductID)
	}

	onHand, err := s.repo.LockQuantities(ctx, ids)
	if err != nil {
		return err
	}
	for _, l := range lines {
		qty, ok := onHand[l.ProductID]
		if !ok {
			return apperr.Newf(apperr.KindProductNotFound, "product %d not found", l.ProductID)
		}
		if qty < l.Quantity {
			return apperr.Newf(apperr.KindInsufficientStock,
				"product %d: requested %d, available %d", l.ProductID, l.Quantity, qty)
		}
	}

	for _, l := range lines {
		ok, err := s.repo.Decrement(ctx, l.ProductID, l.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Newf(apperr.KindInsufficientStock, "product %d: not enough stock", l.ProductID)
		}
	}
	return nil
}

// Release puts the lines back into stock.
func (s *Service) Release(ctx context.Context, lines []Line) error {
	for _, l := range MergeLines(lines) {
		if err := s.repo.Increment(ctx, l.ProductID, l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Forget drops cached copies, called once the stock transaction has committed.
func (s *Service) Forget(ctx context.Context, ids ...int64) {
	for _, id := range ids {
		s.cache.Del(ctx, id)
	}
}

func (s *Service) SetRating(ctx context.Context, id int64, avg float64, count int64) error {
	if err := s.repo.SetRating(ctx, id, avg, count); err != nil {
		return err
	}
	s.cache.Del(ctx, id)
	return nil
}

func (s *Service) publishStock(ctx context.Context, ids []int64, reason string) {
	env, err := events.New(ctx, events.EventStockChanged, s.producer, events.PartitionKey(ids[0]),
		events.StockChangedPayload{ProductIDs: ids, Reason: reason})
	if err != nil {
		log.Error().Err(err).Msg("build stock event")
		return
	}
	if err := s.stock.PublishEvent(ctx, events.PartitionKey(ids[0]), env); err != nil {
		log.Warn().Err(err).Ints64("product_ids", ids).Msg("publish stock event")
	}
}

// MergeLines sums quantities per product and orders the result by product id.
func MergeLines(lines []Line) []Line {
	sum := map[int64]int{}
	for _, l := range lines {
		sum[l.ProductID] += l.Quantity
	}
	out := make([]Line, 0, len(sum))
	for id, q := range sum {
		out = append(out, Line{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
