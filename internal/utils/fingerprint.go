package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a stable hex digest of v's JSON encoding.
func Fingerprint(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode fingerprint payload: %w", err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
