package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePurchaseState(t *testing.T) {
	for _, raw := range []string{"pending", "approved", "rejected", "cancelled"} {
		st, err := ParsePurchaseState(raw)
		require.NoError(t, err)
		assert.Equal(t, PurchaseState(raw), st)
	}

	for _, raw := range []string{"", "shipped", "Approved", "canceled"} {
		_, err := ParsePurchaseState(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"user", "admin"} {
		r, err := ParseRole(raw)
		require.NoError(t, err)
		assert.Equal(t, Role(raw), r)
	}

	_, err := ParseRole("owner")
	assert.Error(t, err)
}
