package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop/internal/events"
	"github.com/ariefcatur/go-shop/internal/inventory"
	kafkax "github.com/ariefcatur/go-shop/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyLowStock(ctx context.Context, s inventory.Summary) error {
	return m.Called(ctx, s).Error(0)
}

type memDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memDedup) FirstSeen(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

func (d *memDedup) Forget(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
	return nil
}

func stockMessage(t *testing.T, ids ...int64) (kafkago.Message, string) {
	t.Helper()
	env, err := events.New(context.Background(), events.EventStockChanged, "test", "", events.StockChangedPayload{
		ProductIDs: ids, Reason: events.StockReasonOrderPlaced,
	})
	require.NoError(t, err)
	return kafkago.Message{Value: kafkax.MustMarshal(env)}, env.EventID
}

func TestHandleStockChanged_NotifiesOncePerEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	low := f.products.Seed(7, "Low", "5", 3)
	fine := f.products.Seed(7, "Fine", "5", 30)
	bare := f.products.Seed(7, "NoAlert", "5", 0)
	v, err := f.svc.Create(ctx, f.seller, inventory.Request{ProductID: low, Threshold: 5})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.seller, inventory.Request{ProductID: fine, Threshold: 5})
	require.NoError(t, err)

	n := &mockNotifier{}
	n.On("NotifyLowStock", mock.Anything, mock.MatchedBy(func(s inventory.Summary) bool {
		return s.ProductID == low && s.QuantityToRestock == 3 && s.SellerID == 7
	})).Return(nil).Once()

	w := &inventory.Worker{Alerts: f.svc, Repo: f.repo, Dedup: &memDedup{seen: map[string]bool{}}, Notifier: n}
	msg, _ := stockMessage(t, low, fine, bare)

	require.NoError(t, w.HandleStockChanged(ctx, msg))
	// pesan sama dikirim ulang: sudah tercatat
	require.NoError(t, w.HandleStockChanged(ctx, msg))
	n.AssertExpectations(t)

	got, err := f.svc.Get(ctx, f.seller, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AlertCount)
}

func TestHandleStockChanged_FailureAllowsRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	low := f.products.Seed(7, "Low", "5", 0)
	_, err := f.svc.Create(ctx, f.seller, inventory.Request{ProductID: low, Threshold: 2})
	require.NoError(t, err)

	n := &mockNotifier{}
	n.On("NotifyLowStock", mock.Anything, mock.Anything).Return(errors.New("sns down")).Once()
	n.On("NotifyLowStock", mock.Anything, mock.Anything).Return(nil).Once()

	dedup := &memDedup{seen: map[string]bool{}}
	w := &inventory.Worker{Alerts: f.svc, Repo: f.repo, Dedup: dedup, Notifier: n}
	msg, id := stockMessage(t, low)

	assert.Error(t, w.HandleStockChanged(ctx, msg))
	assert.False(t, dedup.seen[id])

	require.NoError(t, w.HandleStockChanged(ctx, msg))
	n.AssertExpectations(t)
}

func TestHandleStockChanged_ConsumerRetriesSameMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	low := f.products.Seed(7, "Low", "5", 1)
	v, err := f.svc.Create(ctx, f.seller, inventory.Request{ProductID: low, Threshold: 2})
	require.NoError(t, err)

	n := &mockNotifier{}
	n.On("NotifyLowStock", mock.Anything, mock.Anything).Return(errors.New("sns down")).Once()
	n.On("NotifyLowStock", mock.Anything, mock.Anything).Return(nil).Once()

	w := &inventory.Worker{Alerts: f.svc, Repo: f.repo, Dedup: &memDedup{seen: map[string]bool{}}, Notifier: n}
	msg, _ := stockMessage(t, low)

	err = kafkax.Process(ctx, w.HandleStockChanged, msg, kafkax.Backoff{Initial: time.Millisecond})
	require.NoError(t, err)
	n.AssertExpectations(t)

	got, err := f.svc.Get(ctx, f.seller, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AlertCount)
}

func TestHandleStockChanged_IgnoresOtherEvents(t *testing.T) {
	f := newFixture(t)
	n := &mockNotifier{}
	w := &inventory.Worker{Alerts: f.svc, Repo: f.repo, Dedup: &memDedup{seen: map[string]bool{}}, Notifier: n}

	env, err := events.New(context.Background(), events.EventOrderPlaced, "test", "", events.OrderPlacedPayload{OrderID: 1})
	require.NoError(t, err)
	require.NoError(t, w.HandleStockChanged(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)}))
	n.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything)
}

func TestHandleStockChanged_SkipsMalformedMessage(t *testing.T) {
	f := newFixture(t)
	n := &mockNotifier{}
	w := &inventory.Worker{Alerts: f.svc, Repo: f.repo, Dedup: &memDedup{seen: map[string]bool{}}, Notifier: n}

	assert.NoError(t, w.HandleStockChanged(context.Background(), kafkago.Message{Value: []byte("not json")}))

	env, err := events.New(context.Background(), events.EventStockChanged, "test", "", map[string]string{"product_ids": "x"})
	require.NoError(t, err)
	assert.NoError(t, w.HandleStockChanged(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)}))
	n.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything)
}
