// Package sessiontest provides a token table for tests of packages that authenticate callers.
package sessiontest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/session"
)

type Auth struct {
	mu     sync.Mutex
	tokens map[string]session.Session
}

func NewAuth() *Auth { return &Auth{tokens: map[string]session.Session{}} }

// Login registers token for the user and returns it.
func (a *Auth) Login(userID int64, role session.Role) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	token := fmt.Sprintf("%s%d-%d", role.Prefix(), userID, len(a.tokens))
	a.tokens[token] = session.Session{Token: token, UserID: userID, Role: role}
	return token
}

func (a *Auth) Validate(_ context.Context, token string, expected session.Role) (*session.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.tokens[token]
	if !ok || s.Role != expected {
		return nil, apperr.ErrInvalidToken
	}
	return &s, nil
}
