package kafka

import (
	"encoding/json"
	"testing"

	"github.com/ariefcatur/go-shop/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapPayload(t *testing.T) {
	raw := json.RawMessage(`{"product_ids":[3,4],"reason":"ORDER_PLACED"}`)

	p, err := UnwrapPayload[events.StockChangedPayload](raw)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, p.ProductIDs)

	_, err = UnwrapPayload[events.StockChangedPayload](json.RawMessage(`{"product_ids":"x"}`))
	assert.Error(t, err)
}

func TestProducer_PublishRejectsWhenFull(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, events.TopicStock, 1)

	require.NoError(t, p.Publish([]byte("1"), []byte("a")))
	assert.ErrorIs(t, p.Publish([]byte("1"), []byte("b")), ErrProducerFull)
}
