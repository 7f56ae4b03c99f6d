package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultDuration = time.Hour

type Service struct {
	store    Store
	duration time.Duration
	now      func() time.Time
}

func NewService(store Store, duration time.Duration) *Service {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Service{store: store, duration: duration, now: time.Now}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue creates a session for the user. A live session blocks a second login;
// an expired one is replaced.
func (s *Service) Issue(ctx context.Context, userID int64, role Role) (*Session, error) {
	if !role.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown role %q", role)
	}
	now := s.now()

	existing, err := s.store.FindByUser(ctx, userID, role)
	switch {
	case err == nil:
		if !existing.Expired(now) {
			return nil, apperr.ErrAlreadyLoggedIn
		}
		if err := s.store.DeleteByToken(ctx, existing.Token); err != nil && !errors.Is(err, apperr.ErrInvalidToken) {
			return nil, err
		}
	case !errors.Is(err, apperr.ErrInvalidToken):
		return nil, err
	}

	sess := &Session{
		Token:  role.Prefix() + strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID: userID,
		Role:   role,
		Start:  now,
		End:    now.Add(s.duration),
	}
	if err := s.store.Insert(ctx, sess); err != nil {
		return nil, err
	}
	log.Info().Int64("user_id", userID).Str("role", string(role)).Msg("session issued")
	return sess, nil
}

// Validate resolves token to a live session of the expected role.
// An expired session is deleted before SessionExpired is returned.
func (s *Service) Validate(ctx context.Context, token string, expected Role) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.New(apperr.KindInvalidToken, "token is required")
	}
	if r, ok := roleFromToken(token); !ok || r != expected {
		return nil, apperr.Newf(apperr.KindInvalidToken, "invalid %s token", expected)
	}

	sess, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.Role != expected {
		return nil, apperr.Newf(apperr.KindInvalidToken, "invalid %s token", expected)
	}
	if sess.Expired(s.now()) {
		if err := s.store.DeleteByToken(ctx, sess.Token); err != nil && !errors.Is(err, apperr.ErrInvalidToken) {
			return nil, err
		}
		return nil, apperr.ErrSessionExpired
	}
	return sess, nil
}

// Invalidate logs the token out. Logout needs a currently valid session.
func (s *Service) Invalidate(ctx context.Context, token string, role Role) error {
	sess, err := s.Validate(ctx, token, role)
	if err != nil {
		return err
	}
	if err := s.store.DeleteByToken(ctx, sess.Token); err != nil {
		return err
	}
	log.Info().Int64("user_id", sess.UserID).Str("role", string(role)).Msg("session invalidated")
	return nil
}

// InvalidateUser drops whatever session the user has; no session is not an error.
func (s *Service) InvalidateUser(ctx context.Context, userID int64, role Role) error {
	return s.store.DeleteByUser(ctx, userID, role)
}

func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	log.Info().Int64("deleted", n).Msg("expired sessions swept")
	return n, nil
}
