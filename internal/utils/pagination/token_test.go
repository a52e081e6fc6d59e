package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "txn-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.True(t, createdAt.Equal(decodedAt), "Created at time should match after decode")
	assert.Equal(t, "txn-42", decodedID)

	// Non-UTC input is normalised
	local := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3*3600))
	decodedAt, _, err = DecodeToken(EncodeToken(local, "id"))
	assert.NoError(t, err)
	assert.True(t, local.Equal(decodedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("2025-05-15T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|txn-1"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 50, NormalizeLimit(50))
	assert.Equal(t, MaxLimit, NormalizeLimit(5000))
}

func TestIsAfter(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsAfter(base.Add(-time.Second), "z", base, "a"))
	assert.False(t, IsAfter(base.Add(time.Second), "a", base, "z"))
	assert.True(t, IsAfter(base, "a", base, "b"))
	assert.False(t, IsAfter(base, "b", base, "b"))
}
