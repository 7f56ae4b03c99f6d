package session_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	rows map[string]session.Session
}

func newMemStore() *memStore { return &memStore{rows: map[string]session.Session{}} }

func (m *memStore) FindByToken(_ context.Context, token string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[token]
	if !ok {
		return nil, apperr.ErrInvalidToken
	}
	return &s, nil
}

func (m *memStore) FindByUser(_ context.Context, userID int64, role session.Role) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.UserID == userID && s.Role == role {
			s := s
			return &s, nil
		}
	}
	return nil, apperr.ErrInvalidToken
}

func (m *memStore) Insert(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.rows {
		if e.UserID == s.UserID && e.Role == s.Role {
			return apperr.ErrAlreadyLoggedIn
		}
	}
	m.rows[s.Token] = *s
	return nil
}

func (m *memStore) DeleteByToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[token]; !ok {
		return apperr.ErrInvalidToken
	}
	delete(m.rows, token)
	return nil
}

func (m *memStore) DeleteByUser(_ context.Context, userID int64, role session.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, s := range m.rows {
		if s.UserID == userID && s.Role == role {
			delete(m.rows, k)
		}
	}
	return nil
}

func (m *memStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, s := range m.rows {
		if s.Expired(now) {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newService() (*session.Service, *memStore, *clock) {
	st := newMemStore()
	c := &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	return session.NewService(st, time.Hour).WithClock(c.Now), st, c
}

func TestIssue_TokenCarriesRolePrefixAndWindow(t *testing.T) {
	svc, _, c := newService()

	s, err := svc.Issue(context.Background(), 7, session.RoleCustomer)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s.Token, "customer_"))
	assert.Greater(t, len(s.Token), len("customer_")+16)
	assert.Equal(t, c.t, s.Start)
	assert.Equal(t, c.t.Add(time.Hour), s.End)
}

func TestIssue_TwiceFailsWithAlreadyLoggedIn(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Issue(ctx, 7, session.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.Issue(ctx, 7, session.RoleCustomer)
	assert.ErrorIs(t, err, apperr.ErrAlreadyLoggedIn)
}

func TestIssue_SameIDDifferentRoleIsIndependent(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Issue(ctx, 7, session.RoleCustomer)
	require.NoError(t, err)
	_, err = svc.Issue(ctx, 7, session.RoleSeller)
	assert.NoError(t, err)
}

func TestIssue_ReplacesExpiredSession(t *testing.T) {
	svc, st, c := newService()
	ctx := context.Background()

	old, err := svc.Issue(ctx, 7, session.RoleSeller)
	require.NoError(t, err)
	c.Advance(2 * time.Hour)

	fresh, err := svc.Issue(ctx, 7, session.RoleSeller)
	require.NoError(t, err)
	assert.NotEqual(t, old.Token, fresh.Token)

	_, err = st.FindByToken(ctx, old.Token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestValidate(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	s, err := svc.Issue(ctx, 3, session.RoleCustomer)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		role  session.Role
		want  error
	}{
		{name: "valid with padding", token: "  " + s.Token + " ", role: session.RoleCustomer},
		{name: "blank", token: "   ", role: session.RoleCustomer, want: apperr.ErrInvalidToken},
		{name: "wrong role prefix", token: s.Token, role: session.RoleSeller, want: apperr.ErrInvalidToken},
		{name: "unknown token", token: "customer_deadbeef", role: session.RoleCustomer, want: apperr.ErrInvalidToken},
		{name: "no prefix", token: "abc", role: session.RoleCustomer, want: apperr.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Validate(ctx, tt.token, tt.role)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), got.UserID)
		})
	}
}

func TestValidate_ExpiredDeletesRow(t *testing.T) {
	svc, st, c := newService()
	ctx := context.Background()
	s, err := svc.Issue(ctx, 3, session.RoleCustomer)
	require.NoError(t, err)

	c.Advance(time.Hour + time.Second)

	_, err = svc.Validate(ctx, s.Token, session.RoleCustomer)
	assert.ErrorIs(t, err, apperr.ErrSessionExpired)

	_, err = st.FindByToken(ctx, s.Token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestInvalidate(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	s, err := svc.Issue(ctx, 3, session.RoleSeller)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, s.Token, session.RoleSeller))

	// kedua kali: sesi sudah tidak ada
	assert.ErrorIs(t, svc.Invalidate(ctx, s.Token, session.RoleSeller), apperr.ErrInvalidToken)

	_, err = svc.Issue(ctx, 3, session.RoleSeller)
	assert.NoError(t, err)
}

func TestSweepExpired(t *testing.T) {
	svc, st, c := newService()
	ctx := context.Background()

	_, err := svc.Issue(ctx, 1, session.RoleCustomer)
	require.NoError(t, err)
	c.Advance(30 * time.Minute)
	live, err := svc.Issue(ctx, 2, session.RoleCustomer)
	require.NoError(t, err)
	c.Advance(45 * time.Minute)

	n, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = st.FindByToken(ctx, live.Token)
	assert.NoError(t, err)
}
