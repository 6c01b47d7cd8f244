package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// GenerateSolanaKey returns a single random public key, typically used as a
// program id or mint address in tests.
func GenerateSolanaKey(t *testing.T) ed25519.PublicKey {
	return GenerateSolanaKeys(t, 1)[0]
}
