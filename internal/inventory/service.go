package inventory

import (
	"context"
	"errors"
	"time"

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
}

type Service struct {
	repo     Repository
	products Products
	auth     Authenticator
	now      func() time.Time
}

func NewService(repo Repository, products Products, auth Authenticator) *Service {
	return &Service{repo: repo, products: products, auth: auth, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) seller(ctx context.Context, token string) (int64, error) {
	sess, err := s.auth.Validate(ctx, token, session.RoleSeller)
	if err != nil {
		return 0, err
	}
	return sess.UserID, nil
}

// ownProduct loads a product and checks it belongs to the seller.
func (s *Service) ownProduct(ctx context.Context, sellerID, productID int64) (*catalog.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, apperr.New(apperr.KindNotOwner, "you can only set alerts for your own products")
	}
	return p, nil
}

// ownAlert loads an alert and checks it belongs to the seller.
func (s *Service) ownAlert(ctx context.Context, token string, id int64) (*Alert, error) {
	sellerID, err := s.seller(ctx, token)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.SellerID != sellerID {
		return nil, apperr.New(apperr.KindNotOwner, "you can only manage your own alerts")
	}
	return a, nil
}

func (s *Service) Create(ctx context.Context, token string, req Request) (*View, error) {
	sellerID, err := s.seller(ctx, token)
	if err != nil {
		return nil, err
	}
	if req.Threshold < 0 {
		return nil, apperr.New(apperr.KindValidation, "threshold must not be negative")
	}
	p, err := s.ownProduct(ctx, sellerID, req.ProductID)
	if err != nil {
		return nil, err
	}
	// cek existing
	if _, err := s.repo.GetByProduct(ctx, req.ProductID); err == nil {
		return nil, alreadyExists(req.ProductID)
	} else if !errors.Is(err, apperr.ErrAlertNotFound) {
		return nil, err
	}

	a := &Alert{ProductID: p.ID, SellerID: sellerID, Threshold: req.Threshold, Enabled: true}
	if req.Enabled != nil {
		a.Enabled = *req.Enabled
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	log.Info().Int64("alert_id", a.ID).Int64("product_id", a.ProductID).Int("threshold", a.Threshold).Msg("alert created")
	return view(a, p), nil
}

func (s *Service) Update(ctx context.Context, token string, id int64, req Request) (*View, error) {
	a, err := s.ownAlert(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if req.Threshold < 0 {
		return nil, apperr.New(apperr.KindValidation, "threshold must not be negative")
	}
	pid := a.ProductID
	if req.ProductID != 0 {
		pid = req.ProductID
	}
	p, err := s.ownProduct(ctx, a.SellerID, pid)
	if err != nil {
		return nil, err
	}
	if pid != a.ProductID {
		if other, err := s.repo.GetByProduct(ctx, pid); err == nil && other.ID != id {
			return nil, alreadyExists(pid)
		} else if err != nil && !errors.Is(err, apperr.ErrAlertNotFound) {
			return nil, err
		}
		a.ProductID = pid
	}
	a.Threshold = req.Threshold
	if req.Enabled != nil {
		a.Enabled = *req.Enabled
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return view(a, p), nil
}

func (s *Service) Delete(ctx context.Context, token string, id int64) error {
	if _, err := s.ownAlert(ctx, token, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, token string, id int64) (*View, error) {
	a, err := s.ownAlert(ctx, token, id)
	if err != nil {
		return nil, err
	}
	return s.withProduct(ctx, a)
}

func (s *Service) Toggle(ctx context.Context, token string, id int64, enabled bool) (*View, error) {
	a, err := s.ownAlert(ctx, token, id)
	if err != nil {
		return nil, err
	}
	a.Enabled = enabled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.withProduct(ctx, a)
}

func (s *Service) GetByProduct(ctx context.Context, token string, productID int64) (*View, error) {
	sellerID, err := s.seller(ctx, token)
	if err != nil {
		return nil, err
	}
	p, err := s.ownProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return view(a, p), nil
}

func (s *Service) ListForSeller(ctx context.Context, token string) ([]View, error) {
	return s.list(ctx, token, false)
}

func (s *Service) ListEnabledForSeller(ctx context.Context, token string) ([]View, error) {
	return s.list(ctx, token, true)
}

func (s *Service) list(ctx context.Context, token string, enabledOnly bool) ([]View, error) {
	sellerID, err := s.seller(ctx, token)
	if err != nil {
		return nil, err
	}
	alerts, err := s.repo.ListBySeller(ctx, sellerID, enabledOnly)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(alerts))
	for i := range alerts {
		v, err := s.withProduct(ctx, &alerts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *Service) ListTriggeredForSeller(ctx context.Context, token string) ([]Summary, error) {
	sellerID, err := s.seller(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.triggered(ctx, sellerID)
}

// ListAllTriggered covers every seller.
func (s *Service) ListAllTriggered(ctx context.Context) ([]Summary, error) {
	return s.triggered(ctx, 0)
}

func (s *Service) triggered(ctx context.Context, sellerID int64) ([]Summary, error) {
	alerts, err := s.repo.ListBySeller(ctx, sellerID, true)
	if err != nil {
		return nil, err
	}
	out := []Summary{}
	for i := range alerts {
		sum, err := s.Evaluate(ctx, &alerts[i])
		if err != nil {
			return nil, err
		}
		if sum.Triggered {
			out = append(out, *sum)
		}
	}
	return out, nil
}

// Evaluate computes the alert summary against the product's current quantity.
func (s *Service) Evaluate(ctx context.Context, a *Alert) (*Summary, error) {
	p, err := s.products.Get(ctx, a.ProductID)
	if err != nil {
		return nil, err
	}
	return summarize(a, p), nil
}

func (s *Service) RecordAlertSent(ctx context.Context, id int64) error {
	return s.repo.RecordSent(ctx, id, s.now().UTC())
}

func (s *Service) withProduct(ctx context.Context, a *Alert) (*View, error) {
	p, err := s.products.Get(ctx, a.ProductID)
	if err != nil {
		return nil, err
	}
	return view(a, p), nil
}

func view(a *Alert, p *catalog.Product) *View {
	return &View{Alert: *a, ProductName: p.Name, CurrentQuantity: p.Quantity, Triggered: a.Triggered(p.Quantity)}
}

func summarize(a *Alert, p *catalog.Product) *Summary {
	return &Summary{
		AlertID:           a.ID,
		ProductID:         a.ProductID,
		ProductName:       p.Name,
		SellerID:          a.SellerID,
		Threshold:         a.Threshold,
		CurrentQuantity:   p.Quantity,
		QuantityToRestock: QuantityToRestock(a.Threshold, p.Quantity),
		Triggered:         a.Triggered(p.Quantity),
		LastAlertSentAt:   a.LastAlertSentAt,
	}
}
