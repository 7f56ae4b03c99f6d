package account

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/rs/zerolog/log"
)

type SellerUpdate struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=50"`
	Email     *string `json:"emailId" validate:"omitempty,email"`
}

// ProductPurger clears a seller's products out of customer carts.
type ProductPurger interface {
	PurgeSeller(ctx context.Context, sellerID int64) error
}

type SellerService struct {
	repo     SellerRepository
	hasher   Hasher
	sessions Sessions
	products ProductPurger
	tx       postgres.Transactor
}

func NewSellerService(repo SellerRepository, hasher Hasher, sessions Sessions) *SellerService {
	return &SellerService{repo: repo, hasher: hasher, sessions: sessions}
}

// WithProducts makes Delete purge the seller's products from carts in the same transaction.
func (s *SellerService) WithProducts(p ProductPurger, tx postgres.Transactor) *SellerService {
	s.products = p
	s.tx = tx
	return s
}

func (s *SellerService) Register(ctx context.Context, in Registration) (*Seller, error) {
	if _, err := s.repo.GetByMobile(ctx, in.Mobile); err == nil {
		return nil, apperr.Newf(apperr.KindAccountAlreadyExists, "seller with mobile %s already exists", in.Mobile)
	} else if !errors.Is(err, apperr.ErrAccountNotFound) {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	sl := &Seller{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Mobile:    in.Mobile,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hash,
	}
	if err := s.repo.Create(ctx, sl); err != nil {
		return nil, err
	}
	log.Info().Int64("seller_id", sl.ID).Msg("seller registered")
	return sl, nil
}

func (s *SellerService) Login(ctx context.Context, cr Credentials) (*session.Session, error) {
	sl, err := s.repo.GetByMobile(ctx, cr.Mobile)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Matches(cr.Password, sl.Password) {
		return nil, apperr.New(apperr.KindVerificationFailed, "password incorrect")
	}
	return s.sessions.Issue(ctx, sl.ID, session.RoleSeller)
}

func (s *SellerService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token, session.RoleSeller)
}

func (s *SellerService) Current(ctx context.Context, token string) (*Seller, error) {
	sess, err := s.sessions.Validate(ctx, token, session.RoleSeller)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, sess.UserID)
}

func (s *SellerService) Get(ctx context.Context, id int64) (*Seller, error) {
	return s.repo.Get(ctx, id)
}

func (s *SellerService) GetByMobile(ctx context.Context, sellerToken, mobile string) (*Seller, error) {
	if _, err := s.sessions.Validate(ctx, sellerToken, session.RoleSeller); err != nil {
		return nil, err
	}
	return s.repo.GetByMobile(ctx, mobile)
}

func (s *SellerService) List(ctx context.Context) ([]Seller, error) {
	return s.repo.List(ctx)
}

func (s *SellerService) Update(ctx context.Context, token string, u SellerUpdate) (*Seller, error) {
	sl, err := s.Current(ctx, token)
	if err != nil {
		return nil, err
	}
	if u.FirstName != nil {
		sl.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		sl.LastName = strings.TrimSpace(*u.LastName)
	}
	if u.Email != nil {
		sl.Email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if err := s.repo.Update(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

// UpdateMobile needs the current password.
func (s *SellerService) UpdateMobile(ctx context.Context, token string, mc MobileChange) (*Seller, error) {
	sl, err := s.Current(ctx, token)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Matches(mc.Password, sl.Password) {
		return nil, apperr.New(apperr.KindVerificationFailed, "verification error: password incorrect")
	}
	sl.Mobile = mc.Mobile
	if err := s.repo.Update(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *SellerService) UpdatePassword(ctx context.Context, token string, pc PasswordChange) error {
	sl, err := s.Current(ctx, token)
	if err != nil {
		return err
	}
	if sl.Mobile != pc.Mobile {
		return apperr.New(apperr.KindVerificationFailed, "verification error: mobile number does not match")
	}
	hash, err := s.hasher.Hash(pc.NewPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	sl.Password = hash
	if err := s.repo.Update(ctx, sl); err != nil {
		return err
	}
	return s.sessions.InvalidateUser(ctx, sl.ID, session.RoleSeller)
}

// Delete removes the seller's own account.
func (s *SellerService) Delete(ctx context.Context, token string, id int64) (*Seller, error) {
	sl, err := s.Current(ctx, token)
	if err != nil {
		return nil, err
	}
	if sl.ID != id {
		return nil, apperr.New(apperr.KindNotOwner, "sellers can only delete their own account")
	}
	if err := s.remove(ctx, id); err != nil {
		return nil, err
	}
	log.Info().Int64("seller_id", id).Msg("seller deleted")
	if err := s.sessions.InvalidateUser(ctx, id, session.RoleSeller); err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *SellerService) remove(ctx context.Context, id int64) error {
	if s.products == nil {
		return s.repo.Delete(ctx, id)
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.products.PurgeSeller(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}
