package orders

import (
	"context"
	"time"

	"github.com/ariefcatur/go-shop/internal/account"
	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/events"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/rs/zerolog/log"
)

type Authenticator interface {
	Validate(ctx context.Context, token string, expected session.Role) (*session.Session, error)
}

type Carts interface {
	CartFor(ctx context.Context, customerID int64) (*cart.Cart, error)
	ClearFor(ctx context.Context, customerID int64) error
}

// Stock is the part of the catalog that moves quantities.
type Stock interface {
	Reserve(ctx context.Context, lines []catalog.Line) error
	Release(ctx context.Context, lines []catalog.Line) error
	Forget(ctx context.Context, ids ...int64)
}

type Customers interface {
	Get(ctx context.Context, id int64) (*account.Customer, error)
}

type Cache interface {
	Get(ctx context.Context, id int64) (*Order, bool)
	Set(ctx context.Context, id int64, o *Order)
	Del(ctx context.Context, id int64)
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (*Order, bool) { return nil, false }
func (noCache) Set(context.Context, int64, *Order)        {}
func (noCache) Del(context.Context, int64)                {}

type Service struct {
	repo      Repository
	carts     Carts
	stock     Stock
	customers Customers
	auth      Authenticator
	tx        postgres.Transactor

	cache       Cache
	orderEvents events.Publisher
	stockEvents events.Publisher
	producer    string
	now         func() time.Time
}

func NewService(repo Repository, carts Carts, stock Stock, customers Customers, auth Authenticator, tx postgres.Transactor) *Service {
	return &Service{
		repo: repo, carts: carts, stock: stock, customers: customers, auth: auth, tx: tx,
		cache: noCache{}, orderEvents: events.Discard{}, stockEvents: events.Discard{},
		now: time.Now,
	}
}

func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// WithEvents sets where OrderPlaced/OrderCancelled and StockChanged go.
func (s *Service) WithEvents(orders, stock events.Publisher, producer string) *Service {
	s.orderEvents = orders
	s.stockEvents = stock
	s.producer = producer
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Place checks out the customer's cart: stock is reserved, the order
// snapshot stored and the cart cleared in one transaction.
func (s *Service) Place(ctx context.Context, token string, req PlaceRequest) (*Order, error) {
	sess, err := s.auth.Validate(ctx, token, session.RoleCustomer)
	if err != nil {
		return nil, err
	}
	cust, err := s.customers.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if req.AddressType != "" {
		if _, ok := cust.Addresses[req.AddressType]; !ok {
			return nil, apperr.Newf(apperr.KindAddressNotFound, "address type %q not found", req.AddressType)
		}
	}

	status := StatusPending
	if cust.CreditCard.Matches(req.Card) {
		status = StatusSuccess
	}

	now := s.now()
	var o *Order
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.carts.CartFor(ctx, cust.ID)
		if err != nil {
			return err
		}
		if c.Empty() {
			return apperr.New(apperr.KindEmptyCart, "cart is empty")
		}
		if err := s.stock.Reserve(ctx, c.Lines()); err != nil {
			return err
		}

		o = &Order{
			CustomerID:  cust.ID,
			Items:       make([]Item, 0, len(c.Items)),
			Total:       c.Total,
			Status:      status,
			AddressType: req.AddressType,
			Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		}
		for _, it := range c.Items {
			o.Items = append(o.Items, Item{
				ProductID: it.ProductID, ProductName: it.ProductName,
				UnitPrice: it.UnitPrice, Quantity: it.Quantity,
			})
		}
		if err := s.repo.Create(ctx, o); err != nil {
			return err
		}
		return s.carts.ClearFor(ctx, cust.ID)
	})
	if err != nil {
		return nil, err
	}

	// setelah commit
	ids := o.ProductIDs()
	s.stock.Forget(ctx, ids...)
	log.Info().Int64("order_id", o.ID).Int64("customer_id", o.CustomerID).
		Str("status", string(o.Status)).Str("total", o.Total.String()).Msg("order placed")

	s.publish(ctx, s.orderEvents, events.EventOrderPlaced, o.ID, events.OrderPlacedPayload{
		OrderID: o.ID, CustomerID: o.CustomerID, Status: string(o.Status),
		Total: o.Total.String(), Items: itemQty(o.Items),
	})
	s.publish(ctx, s.stockEvents, events.EventStockChanged, o.ID, events.StockChangedPayload{
		ProductIDs: ids, Reason: events.StockReasonOrderPlaced,
	})
	return o, nil
}

// Cancel puts the ordered quantities back. The order row stays locked for
// the whole transaction so two cancels cannot restore twice.
func (s *Service) Cancel(ctx context.Context, token string, orderID int64) (*Order, error) {
	sess, err := s.auth.Validate(ctx, token, session.RoleCustomer)
	if err != nil {
		return nil, err
	}
	var o *Order
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.repo.Lock(ctx, orderID)
		if err != nil {
			return err
		}
		if o.CustomerID != sess.UserID {
			return apperr.Newf(apperr.KindNotOwner, "order %d belongs to another customer", orderID)
		}
		if o.Status == StatusCancelled {
			return apperr.Newf(apperr.KindAlreadyCancelled, "order %d is already cancelled", orderID)
		}
		if !CanTransition(o.Status, StatusCancelled) {
			return apperr.Newf(apperr.KindValidation, "order %d cannot be cancelled from %s", orderID, o.Status)
		}
		if err := s.stock.Release(ctx, o.Lines()); err != nil {
			return err
		}
		if err := s.repo.SetStatus(ctx, orderID, StatusCancelled); err != nil {
			return err
		}
		o.Status = StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := o.ProductIDs()
	s.stock.Forget(ctx, ids...)
	s.cache.Del(ctx, orderID)
	log.Info().Int64("order_id", o.ID).Int64("customer_id", o.CustomerID).Msg("order cancelled")

	s.publish(ctx, s.orderEvents, events.EventOrderCancelled, o.ID, events.OrderCancelledPayload{
		OrderID: o.ID, CustomerID: o.CustomerID, Restored: itemQty(o.Items),
	})
	s.publish(ctx, s.stockEvents, events.EventStockChanged, o.ID, events.StockChangedPayload{
		ProductIDs: ids, Reason: events.StockReasonOrderCancelled,
	})
	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	// 1) coba cache
	if o, ok := s.cache.Get(ctx, id); ok && o != nil {
		return o, nil
	}
	// 2) fallback DB
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, id, o)
	return o, nil
}

func (s *Service) ListByDate(ctx context.Context, day time.Time) ([]Order, error) {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	list, err := s.repo.ListByDate(ctx, d)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperr.Newf(apperr.KindOrderNotFound, "no orders on %s", d.Format(time.DateOnly))
	}
	return list, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) CustomerByOrder(ctx context.Context, orderID int64) (*account.Customer, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.customers.Get(ctx, o.CustomerID)
}

func (s *Service) ListForCustomer(ctx context.Context, token string) ([]Order, error) {
	sess, err := s.auth.Validate(ctx, token, session.RoleCustomer)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByCustomer(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperr.Newf(apperr.KindOrderNotFound, "no orders for customer %d", sess.UserID)
	}
	return list, nil
}

func (s *Service) publish(ctx context.Context, p events.Publisher, eventType string, orderID int64, payload any) {
	key := events.PartitionKey(orderID)
	env, err := events.New(ctx, eventType, s.producer, key, payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("build event")
		return
	}
	if err := p.PublishEvent(ctx, key, env); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Int64("order_id", orderID).Msg("publish event")
	}
}

func itemQty(items []Item) []events.ItemQty {
	out := make([]events.ItemQty, 0, len(items))
	for _, it := range items {
		out = append(out, events.ItemQty{ProductID: it.ProductID, Qty: it.Quantity})
	}
	return out
}
