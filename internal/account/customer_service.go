package account

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/rs/zerolog/log"
)

type Sessions interface {
	Issue(ctx context.Context, userID int64, role session.Role) (*session.Session, error)
	Validate(ctx context.Context, token string, expected session.Role) (*session.Session, error)
	Invalidate(ctx context.Context, token string, role session.Role) error
	InvalidateUser(ctx context.Context, userID int64, role session.Role) error
}

// CartOpener creates the cart every customer owns from registration on.
type CartOpener interface {
	Create(ctx context.Context, customerID int64) (*cart.Cart, error)
}

type CustomerService struct {
	repo     CustomerRepository
	hasher   Hasher
	sessions Sessions
	carts    CartOpener
	tx       postgres.Transactor
}

func NewCustomerService(repo CustomerRepository, hasher Hasher, sessions Sessions, carts CartOpener, tx postgres.Transactor) *CustomerService {
	return &CustomerService{repo: repo, hasher: hasher, sessions: sessions, carts: carts, tx: tx}
}

func (s *CustomerService) Register(ctx context.Context, in Registration) (*Customer, error) {
	if _, err := s.repo.GetByMobile(ctx, in.Mobile); err == nil {
		return nil, apperr.Newf(apperr.KindAccountAlreadyExists, "customer with mobile %s already exists", in.Mobile)
	} else if !errors.Is(err, apperr.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	c := &Customer{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Mobile:    in.Mobile,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hash,
		Addresses: map[string]Address{},
	}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}
		_, err := s.carts.Create(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("customer_id", c.ID).Msg("customer registered")
	return c, nil
}

func (s *CustomerService) Login(ctx context.Context, cr Credentials) (*session.Session, error) {
	c, err := s.repo.GetByMobile(ctx, cr.Mobile)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Matches(cr.Password, c.Password) {
		return nil, apperr.New(apperr.KindVerificationFailed, "password incorrect")
	}
	return s.sessions.Issue(ctx, c.ID, session.RoleCustomer)
}

func (s *CustomerService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token, session.RoleCustomer)
}

func (s *CustomerService) Current(ctx context.Context, token string) (*Customer, error) {
	sess, err := s.sessions.Validate(ctx, token, session.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, sess.UserID)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List is for sellers only.
func (s *CustomerService) List(ctx context.Context, sellerToken string) ([]Customer, error) {
	if _, err := s.sessions.Validate(ctx, sellerToken, session.RoleSeller); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Update applies the non-nil fields of u.
func (s *CustomerService) Update(ctx context.Context, token string, u ProfileUpdate) (*Customer, error) {
	c, err := s.Current(ctx, token)
	if err != nil {
		return nil, err
	}
	if u.FirstName != nil {
		c.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		c.LastName = strings.TrimSpace(*u.LastName)
	}
	if u.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.Mobile != nil && *u.Mobile != c.Mobile {
		if _, err := s.repo.GetByMobile(ctx, *u.Mobile); err == nil {
			return nil, apperr.Newf(apperr.KindAccountAlreadyExists, "mobile %s already registered", *u.Mobile)
		} else if !errors.Is(err, apperr.ErrAccountNotFound) {
			return nil, err
		}
		c.Mobile = *u.Mobile
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdatePassword needs the registered mobile number and ends the current session.
func (s *CustomerService) UpdatePassword(ctx context.Context, token string, pc PasswordChange) error {
	c, err := s.Current(ctx, token)
	if err != nil {
		return err
	}
	if c.Mobile != pc.Mobile {
		return apperr.New(apperr.KindVerificationFailed, "verification error: mobile number does not match")
	}
	hash, err := s.hasher.Hash(pc.NewPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	c.Password = hash
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	log.Info().Int64("customer_id", c.ID).Msg("customer password changed")
	return s.sessions.InvalidateUser(ctx, c.ID, session.RoleCustomer)
}

// UpsertAddress stores addr under kind ("home", "work", ...), replacing any existing one.
func (s *CustomerService) UpsertAddress(ctx context.Context, token, kind string, addr Address) (*Customer, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return nil, apperr.New(apperr.KindValidation, "address type is required")
	}
	c, err := s.Current(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertAddress(ctx, c.ID, kind, addr); err != nil {
		return nil, err
	}
	c.Addresses[kind] = addr
	return c, nil
}

func (s *CustomerService) DeleteAddress(ctx context.Context, token, kind string) (*Customer, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	c, err := s.Current(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Addresses[kind]; !ok {
		return nil, apperr.Newf(apperr.KindAddressNotFound, "address type %q not found", kind)
	}
	if err := s.repo.DeleteAddress(ctx, c.ID, kind); err != nil {
		return nil, err
	}
	delete(c.Addresses, kind)
	return c, nil
}

func (s *CustomerService) UpdateCreditCard(ctx context.Context, token string, card CreditCard) (*Customer, error) {
	c, err := s.Current(ctx, token)
	if err != nil {
		return nil, err
	}
	c.CreditCard = card
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the account after re-checking mobile and password, then logs out.
func (s *CustomerService) Delete(ctx context.Context, token string, cr Credentials) error {
	c, err := s.Current(ctx, token)
	if err != nil {
		return err
	}
	if c.Mobile != cr.Mobile || !s.hasher.Matches(cr.Password, c.Password) {
		return apperr.New(apperr.KindVerificationFailed, "verification error: mobile or password does not match")
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return err
	}
	log.Info().Int64("customer_id", c.ID).Msg("customer deleted")
	return s.sessions.InvalidateUser(ctx, c.ID, session.RoleCustomer)
}
