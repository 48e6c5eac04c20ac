package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOpaqueToken(t *testing.T) {
	t.Run("honours requested length", func(t *testing.T) {
		for _, length := range []int{1, 16, OpaqueTokenLength, 64} {
			token, err := GenerateOpaqueToken(length)
			require.NoError(t, err)
			require.Len(t, token, length)
		}
	})

	t.Run("alphanumeric charset only", func(t *testing.T) {
		token, err := GenerateOpaqueToken(256)
		require.NoError(t, err)

		for _, char := range token {
			valid := (char >= 'a' && char <= 'z') ||
				(char >= 'A' && char <= 'Z') ||
				(char >= '0' && char <= '9')
			require.True(t, valid, "unexpected character %q", char)
		}
	})

	t.Run("rejects non-positive lengths", func(t *testing.T) {
		_, err := GenerateOpaqueToken(0)
		require.Error(t, err)
		_, err = GenerateOpaqueToken(-5)
		require.Error(t, err)
	})

	t.Run("no duplicates across many draws", func(t *testing.T) {
		const count = 1000
		seen := make(map[string]bool, count)

		for range count {
			token, err := GenerateOpaqueToken(OpaqueTokenLength)
			require.NoError(t, err)
			require.False(t, seen[token], "duplicate token generated")
			seen[token] = true
		}
	})
}

func TestMustGenerateOpaqueToken(t *testing.T) {
	token := MustGenerateOpaqueToken(OpaqueTokenLength)
	require.Len(t, token, OpaqueTokenLength)

	require.Panics(t, func() {
		MustGenerateOpaqueToken(-1)
	})
}
