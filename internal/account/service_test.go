package account_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ariefcatur/go-shop/internal/account"
	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/ariefcatur/go-shop/internal/postgres/pgtest"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Matches(p, h string) bool     { return "h:"+p == h }

type fakeSessions struct {
	mu   sync.Mutex
	rows map[string]session.Session
}

func newFakeSessions() *fakeSessions { return &fakeSessions{rows: map[string]session.Session{}} }

func (f *fakeSessions) Issue(_ context.Context, userID int64, role session.Role) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.UserID == userID && s.Role == role {
			return nil, apperr.ErrAlreadyLoggedIn
		}
	}
	s := session.Session{Token: fmt.Sprintf("%s%d", role.Prefix(), userID), UserID: userID, Role: role}
	f.rows[s.Token] = s
	return &s, nil
}

func (f *fakeSessions) Validate(_ context.Context, token string, role session.Role) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[token]
	if !ok || s.Role != role {
		return nil, apperr.ErrInvalidToken
	}
	return &s, nil
}

func (f *fakeSessions) Invalidate(_ context.Context, token string, role session.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[token]
	if !ok || s.Role != role {
		return apperr.ErrInvalidToken
	}
	delete(f.rows, token)
	return nil
}

func (f *fakeSessions) InvalidateUser(_ context.Context, userID int64, role session.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, s := range f.rows {
		if s.UserID == userID && s.Role == role {
			delete(f.rows, k)
		}
	}
	return nil
}

type mockCarts struct{ mock.Mock }

func (m *mockCarts) Create(ctx context.Context, customerID int64) (*cart.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

type memCustomers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]account.Customer
}

func newMemCustomers() *memCustomers { return &memCustomers{rows: map[int64]account.Customer{}} }

func (m *memCustomers) Create(_ context.Context, c *account.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.rows[c.ID] = copyCustomer(*c)
	return nil
}

func (m *memCustomers) Get(_ context.Context, id int64) (*account.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, apperr.ErrAccountNotFound
	}
	out := copyCustomer(c)
	return &out, nil
}

func (m *memCustomers) GetByMobile(_ context.Context, mobile string) (*account.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.Mobile == mobile {
			out := copyCustomer(c)
			return &out, nil
		}
	}
	return nil, apperr.ErrAccountNotFound
}

func (m *memCustomers) List(_ context.Context) ([]account.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]account.Customer, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, copyCustomer(c))
	}
	return out, nil
}

func (m *memCustomers) Update(_ context.Context, c *account.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[c.ID]
	if !ok {
		return apperr.ErrAccountNotFound
	}
	n := copyCustomer(*c)
	n.Addresses = old.Addresses
	m.rows[c.ID] = n
	return nil
}

func (m *memCustomers) UpsertAddress(_ context.Context, id int64, kind string, a account.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return apperr.ErrAccountNotFound
	}
	c.Addresses[kind] = a
	return nil
}

func (m *memCustomers) DeleteAddress(_ context.Context, id int64, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.rows[id]
	if _, ok := c.Addresses[kind]; !ok {
		return apperr.ErrAddressNotFound
	}
	delete(c.Addresses, kind)
	return nil
}

func (m *memCustomers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperr.ErrAccountNotFound
	}
	delete(m.rows, id)
	return nil
}

func copyCustomer(c account.Customer) account.Customer {
	addrs := make(map[string]account.Address, len(c.Addresses))
	for k, v := range c.Addresses {
		addrs[k] = v
	}
	c.Addresses = addrs
	return c
}

var reg = account.Registration{
	FirstName: "Rina", LastName: "Putri", Mobile: "9876543210",
	Email: "Rina@Example.com", Password: "secret123",
}

func newCustomers(t *testing.T) (*account.CustomerService, *memCustomers, *fakeSessions, *mockCarts) {
	t.Helper()
	repo := newMemCustomers()
	sess := newFakeSessions()
	carts := &mockCarts{}
	return account.NewCustomerService(repo, plainHasher{}, sess, carts, pgtest.NoTx{}), repo, sess, carts
}

func TestCustomerRegister_OpensCart(t *testing.T) {
	svc, _, _, carts := newCustomers(t)
	carts.On("Create", mock.Anything, int64(1)).Return(&cart.Cart{ID: 1, CustomerID: 1}, nil).Once()

	c, err := svc.Register(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "rina@example.com", c.Email)
	assert.Equal(t, "h:secret123", c.Password)
	carts.AssertExpectations(t)

	_, err = svc.Register(context.Background(), reg)
	assert.ErrorIs(t, err, apperr.ErrAccountAlreadyExists)
}

func TestCustomerRegister_CartFailureAborts(t *testing.T) {
	svc, _, _, carts := newCustomers(t)
	boom := errors.New("db down")
	carts.On("Create", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := svc.Register(context.Background(), reg)
	assert.ErrorIs(t, err, boom)
}

func TestCustomerLogin(t *testing.T) {
	svc, _, _, carts := newCustomers(t)
	carts.On("Create", mock.Anything, mock.Anything).Return(&cart.Cart{}, nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	_, err = svc.Login(ctx, account.Credentials{Mobile: "0000000000", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrAccountNotFound)

	_, err = svc.Login(ctx, account.Credentials{Mobile: reg.Mobile, Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrVerificationFailed)

	s, err := svc.Login(ctx, account.Credentials{Mobile: reg.Mobile, Password: reg.Password})
	require.NoError(t, err)
	assert.Equal(t, session.RoleCustomer, s.Role)

	_, err = svc.Login(ctx, account.Credentials{Mobile: reg.Mobile, Password: reg.Password})
	assert.ErrorIs(t, err, apperr.ErrAlreadyLoggedIn)

	require.NoError(t, svc.Logout(ctx, s.Token))
	_, err = svc.Current(ctx, s.Token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func loggedIn(t *testing.T) (*account.CustomerService, *memCustomers, string) {
	t.Helper()
	svc, repo, _, carts := newCustomers(t)
	carts.On("Create", mock.Anything, mock.Anything).Return(&cart.Cart{}, nil)
	_, err := svc.Register(context.Background(), reg)
	require.NoError(t, err)
	s, err := svc.Login(context.Background(), account.Credentials{Mobile: reg.Mobile, Password: reg.Password})
	require.NoError(t, err)
	return svc, repo, s.Token
}

func TestCustomerUpdate_MobileMustBeUnique(t *testing.T) {
	svc, repo, tok := loggedIn(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &account.Customer{Mobile: "1111111111", Addresses: map[string]account.Address{}}))

	taken := "1111111111"
	_, err := svc.Update(ctx, tok, account.ProfileUpdate{Mobile: &taken})
	assert.ErrorIs(t, err, apperr.ErrAccountAlreadyExists)

	name := "Rini"
	c, err := svc.Update(ctx, tok, account.ProfileUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Rini", c.FirstName)
	assert.Equal(t, "Putri", c.LastName)
}

func TestCustomerUpdatePassword_LogsOut(t *testing.T) {
	svc, _, tok := loggedIn(t)
	ctx := context.Background()

	err := svc.UpdatePassword(ctx, tok, account.PasswordChange{Mobile: "0000000000", NewPassword: "another123"})
	assert.ErrorIs(t, err, apperr.ErrVerificationFailed)

	require.NoError(t, svc.UpdatePassword(ctx, tok, account.PasswordChange{Mobile: reg.Mobile, NewPassword: "another123"}))
	_, err = svc.Current(ctx, tok)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	_, err = svc.Login(ctx, account.Credentials{Mobile: reg.Mobile, Password: "another123"})
	assert.NoError(t, err)
}

func TestCustomerAddresses(t *testing.T) {
	svc, _, tok := loggedIn(t)
	ctx := context.Background()
	home := account.Address{City: "Bandung", State: "Jawa Barat", Pincode: "401234"}

	c, err := svc.UpsertAddress(ctx, tok, " Home ", home)
	require.NoError(t, err)
	assert.Equal(t, home, c.Addresses["home"])

	_, err = svc.DeleteAddress(ctx, tok, "work")
	assert.ErrorIs(t, err, apperr.ErrAddressNotFound)

	c, err = svc.DeleteAddress(ctx, tok, "home")
	require.NoError(t, err)
	assert.Empty(t, c.Addresses)

	_, err = svc.UpsertAddress(ctx, tok, "", home)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCustomerDelete_RequiresCredentials(t *testing.T) {
	svc, repo, tok := loggedIn(t)
	ctx := context.Background()

	err := svc.Delete(ctx, tok, account.Credentials{Mobile: reg.Mobile, Password: "nope"})
	assert.ErrorIs(t, err, apperr.ErrVerificationFailed)

	require.NoError(t, svc.Delete(ctx, tok, account.Credentials{Mobile: reg.Mobile, Password: reg.Password}))
	_, err = repo.Get(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrAccountNotFound)
	_, err = svc.Current(ctx, tok)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestCustomerList_SellersOnly(t *testing.T) {
	svc, _, tok := loggedIn(t)
	_, err := svc.List(context.Background(), tok)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}
