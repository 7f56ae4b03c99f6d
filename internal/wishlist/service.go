package wishlist

import (
	"context"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/rs/zerolog/log"
)

type Authenticator interface {
	Validate(ctx context.Context, token string, expected session.Role) (*session.Session, error)
}

type Products interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
}

type Carts interface {
	AddOne(ctx context.Context, customerID, productID int64) (*cart.Cart, error)
}

type Service struct {
	repo     Repository
	products Products
	carts    Carts
	auth     Authenticator
	tx       postgres.Transactor
}

func NewService(repo Repository, products Products, carts Carts, auth Authenticator, tx postgres.Transactor) *Service {
	return &Service{repo: repo, products: products, carts: carts, auth: auth, tx: tx}
}

func (s *Service) customer(ctx context.Context, token string) (int64, error) {
	sess, err := s.auth.Validate(ctx, token, session.RoleCustomer)
	if err != nil {
		return 0, err
	}
	return sess.UserID, nil
}

func (s *Service) Add(ctx context.Context, token string, productID int64) (*Item, error) {
	id, err := s.customer(ctx, token)
	if err != nil {
		return nil, err
	}
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	it, err := s.repo.Add(ctx, id, productID)
	if err != nil {
		return nil, err
	}
	it.ProductName = p.Name
	it.Price = p.Price
	it.Status = p.Status
	return it, nil
}

func (s *Service) List(ctx context.Context, token string) ([]Item, error) {
	id, err := s.customer(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, id)
}

func (s *Service) Remove(ctx context.Context, token string, productID int64) error {
	id, err := s.customer(ctx, token)
	if err != nil {
		return err
	}
	return s.repo.Remove(ctx, id, productID)
}

func (s *Service) IsWishlisted(ctx context.Context, token string, productID int64) (bool, error) {
	id, err := s.customer(ctx, token)
	if err != nil {
		return false, err
	}
	return s.repo.Exists(ctx, id, productID)
}

// MoveToCart adds one unit to the cart and drops the wishlist entry, both or neither.
func (s *Service) MoveToCart(ctx context.Context, token string, productID int64) (*cart.Cart, error) {
	id, err := s.customer(ctx, token)
	if err != nil {
		return nil, err
	}
	var out *cart.Cart
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Exists(ctx, id, productID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Newf(apperr.KindItemNotFound, "product %d is not in wishlist", productID)
		}
		c, err := s.carts.AddOne(ctx, id, productID)
		if err != nil {
			return err
		}
		out = c
		return s.repo.Remove(ctx, id, productID)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("customer_id", id).Int64("product_id", productID).Msg("wishlist item moved to cart")
	return out, nil
}
