package events_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ariefcatur/go-shop/internal/events"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RoundTripsThroughDecode(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	env, err := events.New(ctx, events.EventStockChanged, "shop-api", "42",
		events.StockChangedPayload{ProductIDs: []int64{42}, Reason: events.StockReasonRestock})
	require.NoError(t, err)

	b, err := json.Marshal(env)
	require.NoError(t, err)
	got, err := events.Decode(b)
	require.NoError(t, err)

	assert.Equal(t, env.EventID, got.EventID)
	assert.Equal(t, 1, got.EventVersion)
	assert.Equal(t, "req-1", got.TraceID)
	assert.Equal(t, "42", got.CorrelationID)

	var p events.StockChangedPayload
	require.NoError(t, json.Unmarshal(got.Payload, &p))
	assert.Equal(t, []int64{42}, p.ProductIDs)
	assert.Equal(t, events.StockReasonRestock, p.Reason)
}
