package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, h.Matches("s3cret-pass", hash))
	assert.False(t, h.Matches("wrong", hash))
}

func TestCreditCard_Matches(t *testing.T) {
	card := CreditCard{CardNumber: "4111111111111111", CardValidity: "12/30", CardCVV: "123"}

	assert.True(t, card.Matches(card))
	assert.False(t, card.Matches(CreditCard{CardNumber: "4111111111111111", CardValidity: "12/30", CardCVV: "999"}))
	assert.False(t, CreditCard{}.Matches(CreditCard{}))
}
