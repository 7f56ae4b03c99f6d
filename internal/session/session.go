package session

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// Prefix is only a human-readable tag on the token; Session.Role is what gets checked.
func (r Role) Prefix() string { return string(r) + "_" }

func (r Role) Valid() bool { return r == RoleCustomer || r == RoleSeller }

type Session struct {
	Token  string    `json:"token"`
	UserID int64     `json:"userId"`
	Role   Role      `json:"role"`
	Start  time.Time `json:"sessionStartTime"`
	End    time.Time `json:"sessionEndTime"`
}

func (s *Session) Expired(now time.Time) bool { return !now.Before(s.End) }

// Store persists sessions keyed by token, unique per (user, role).
// Lookups return apperr.ErrInvalidToken when nothing matches.
type Store interface {
	FindByToken(ctx context.Context, token string) (*Session, error)
	FindByUser(ctx context.Context, userID int64, role Role) (*Session, error)
	Insert(ctx context.Context, s *Session) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64, role Role) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

func roleFromToken(token string) (Role, bool) {
	for _, r := range []Role{RoleCustomer, RoleSeller} {
		if strings.HasPrefix(token, r.Prefix()) {
			return r, true
		}
	}
	return "", false
}
