package review

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/rs/zerolog/log"
)

type Authenticator interface {
	Validate(ctx context.Context, token string, expected session.Role) (*session.Session, error)
}

type Products interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
	SetRating(ctx context.Context, id int64, avg float64, count int64) error
}

type Service struct {
	repo     Repository
	products Products
	auth     Authenticator
}

func NewService(repo Repository, products Products, auth Authenticator) *Service {
	return &Service{repo: repo, products: products, auth: auth}
}

func check(req *Request) error {
	if req.Rating < 1 || req.Rating > 5 {
		return apperr.Newf(apperr.KindInvalidRating, "rating must be between 1 and 5, got %d", req.Rating)
	}
	req.Title = strings.TrimSpace(req.Title)
	if n := utf8.RuneCountInString(req.Title); n < 3 || n > 100 {
		return apperr.New(apperr.KindValidation, "title must be 3 to 100 characters")
	}
	if n := utf8.RuneCountInString(req.Comment); n < 10 || n > 1000 {
		return apperr.New(apperr.KindValidation, "comment must be 10 to 1000 characters")
	}
	return nil
}

func (s *Service) Add(ctx context.Context, token string, productID int64, req Request) (*Review, error) {
	sess, err := s.auth.Validate(ctx, token, session.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := check(&req); err != nil {
		return nil, err
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}
	r := &Review{
		Rating: req.Rating, Title: req.Title, Comment: req.Comment,
		ProductID: productID, CustomerID: sess.UserID,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.recompute(ctx, productID)
	return r, nil
}

// owned returns a live review written by the session's customer.
func (s *Service) owned(ctx context.Context, token string, id int64) (*Review, error) {
	sess, err := s.auth.Validate(ctx, token, session.RoleCustomer)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.CustomerID != sess.UserID {
		return nil, apperr.New(apperr.KindNotOwner, "you can only change your own reviews")
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, token string, id int64, req Request) (*Review, error) {
	r, err := s.owned(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if err := check(&req); err != nil {
		return nil, err
	}
	r.Rating, r.Title, r.Comment = req.Rating, req.Title, req.Comment
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	s.recompute(ctx, r.ProductID)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, token string, id int64) (*Review, error) {
	r, err := s.owned(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	r.IsDeleted = true
	s.recompute(ctx, r.ProductID)
	return r, nil
}

// Approve accepts any seller session.
func (s *Service) Approve(ctx context.Context, sellerToken string, id int64) (*Review, error) {
	if _, err := s.auth.Validate(ctx, sellerToken, session.RoleSeller); err != nil {
		return nil, err
	}
	if err := s.repo.Approve(ctx, id); err != nil {
		return nil, err
	}
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("review_id", id).Int64("product_id", r.ProductID).Msg("review approved")
	s.recompute(ctx, r.ProductID)
	return r, nil
}

func (s *Service) ProductReviews(ctx context.Context, productID int64, page, size int) (catalog.Page[Review], error) {
	f := catalog.Filter{Page: page, Size: size}
	f.Normalize()
	items, total, err := s.repo.ListApproved(ctx, productID, f.Page, f.Size)
	if err != nil {
		return catalog.Page[Review]{}, err
	}
	return catalog.NewPage(items, total, f.Page, f.Size), nil
}

func (s *Service) Summary(ctx context.Context, productID int64) (Summary, error) {
	avg, n, err := s.repo.Stats(ctx, productID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{AverageRating: avg, TotalReviews: n, ProductID: productID}, nil
}

// recompute pushes the fresh aggregate to the product row; a failure here
// does not undo the review change.
func (s *Service) recompute(ctx context.Context, productID int64) {
	sum, err := s.Summary(ctx, productID)
	if err == nil {
		err = s.products.SetRating(ctx, productID, sum.AverageRating, sum.TotalReviews)
	}
	if err != nil {
		log.Error().Err(err).Int64("product_id", productID).Msg("recompute product rating")
	}
}
