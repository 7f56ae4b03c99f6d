package redisx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "product:42", ProductKey(42))
	assert.Equal(t, "order:7", OrderKey(7))
	assert.Equal(t, "dedup:inventory-alerts:evt-1", DedupKey("inventory-alerts", "evt-1"))
}
