package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fingerprintPayload struct {
	ReferenceID string          `json:"referenceID"`
	Amount      decimal.Decimal `json:"amount"`
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(fingerprintPayload{ReferenceID: "v-1", Amount: decimal.RequireFromString("500")})
	require.NoError(t, err)
	assert.Len(t, a, 64)

	same, err := Fingerprint(fingerprintPayload{ReferenceID: "v-1", Amount: decimal.RequireFromString("500.00")})
	require.NoError(t, err)
	assert.Equal(t, a, same, "equal amounts with different scale must fingerprint the same")

	other, err := Fingerprint(fingerprintPayload{ReferenceID: "v-1", Amount: decimal.RequireFromString("501")})
	require.NoError(t, err)
	assert.NotEqual(t, a, other)

	_, err = Fingerprint(make(chan int))
	assert.Error(t, err)
}
