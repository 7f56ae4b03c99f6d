package cart

import (
	"context"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/session"
)

type Authenticator interface {
	Validate(ctx context.Context, token string, expected session.Role) (*session.Session, error)
}

type Products interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
}

type Service struct {
	repo     Repository
	products Products
	auth     Authenticator
	tx       postgres.Transactor
}

func NewService(repo Repository, products Products, auth Authenticator, tx postgres.Transactor) *Service {
	return &Service{repo: repo, products: products, auth: auth, tx: tx}
}

func (s *Service) customer(ctx context.Context, token string) (int64, error) {
	sess, err := s.auth.Validate(ctx, token, session.RoleCustomer)
	if err != nil {
		return 0, err
	}
	return sess.UserID, nil
}

// AddItem adds one unit of the product per call; qty is accepted for
// compatibility but must be non-negative.
func (s *Service) AddItem(ctx context.Context, token string, productID int64, qty int) (*Cart, error) {
	if qty < 0 {
		return nil, apperr.New(apperr.KindValidation, "quantity must be non-negative")
	}
	id, err := s.customer(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.AddOne(ctx, id, productID)
}

func (s *Service) RemoveItem(ctx context.Context, token string, productID int64) (*Cart, error) {
	id, err := s.customer(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(c *Cart) error { return c.Remove(productID) })
}

func (s *Service) Clear(ctx context.Context, token string) (*Cart, error) {
	id, err := s.customer(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(c *Cart) error {
		if c.Empty() {
			return apperr.ErrCartEmpty
		}
		c.Clear()
		return nil
	})
}

func (s *Service) Get(ctx context.Context, token string) (*Cart, error) {
	id, err := s.customer(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.repo.ByCustomer(ctx, id)
}

// Create opens the cart of a freshly registered customer.
func (s *Service) Create(ctx context.Context, customerID int64) (*Cart, error) {
	return s.repo.Create(ctx, customerID)
}

func (s *Service) CartFor(ctx context.Context, customerID int64) (*Cart, error) {
	return s.repo.ByCustomer(ctx, customerID)
}

// AddOne is the shared add path for cart and wishlist.
func (s *Service) AddOne(ctx context.Context, customerID, productID int64) (*Cart, error) {
	return s.mutate(ctx, customerID, func(c *Cart) error {
		p, err := s.products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if !p.Orderable() {
			return apperr.Newf(apperr.KindProductUnavailable, "product %d is out of stock", productID)
		}
		c.Add(p)
		return nil
	})
}

// ClearFor empties the cart without the empty check (checkout).
func (s *Service) ClearFor(ctx context.Context, customerID int64) error {
	_, err := s.mutate(ctx, customerID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	return err
}

// RemoveProducts drops the products from every cart that holds them, keeping
// each total in step. Called before the products themselves are deleted.
func (s *Service) RemoveProducts(ctx context.Context, productIDs ...int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		customers, err := s.repo.CustomersHolding(ctx, productIDs)
		if err != nil {
			return err
		}
		for _, cid := range customers {
			_, err := s.mutate(ctx, cid, func(c *Cart) error {
				for _, pid := range productIDs {
					c.Drop(pid)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, customerID int64, fn func(c *Cart) error) (*Cart, error) {
	var out *Cart
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.ByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}
