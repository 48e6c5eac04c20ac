package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// OpaqueTokenLength is the canonical length for session and registration
// token values: 32 alphanumeric characters, ~190 bits of entropy.
const OpaqueTokenLength = 32

// GenerateOpaqueToken creates a cryptographically random alphanumeric string
// of the given length. Used for token values and client secrets, where the
// value itself is the credential and collision implies a bug.
func GenerateOpaqueToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("cryptox: token length must be positive, got %d", length)
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
		}
		out[i] = alphanumeric[n.Int64()]
	}
	return string(out), nil
}

// MustGenerateOpaqueToken is like GenerateOpaqueToken but panics on error.
// Only for initialization paths where failure is unrecoverable.
func MustGenerateOpaqueToken(length int) string {
	token, err := GenerateOpaqueToken(length)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}
