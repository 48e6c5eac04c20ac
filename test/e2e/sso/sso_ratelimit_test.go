package sso_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signonhq/signon/pkg/ssoclient"
)

// TestLoginRateLimited verifies the login endpoint enforces its strict
// per-IP limit (5 req/min) against credential guessing.
func TestLoginRateLimited(t *testing.T) {
	baseURL, cleanup := setupContainerWithDefaultRateLimits(t)
	defer cleanup()

	ctx := context.Background()
	c := ssoclient.New(baseURL)

	var lastErr error
	for i := range 6 {
		_, err := c.Login(ctx, adminEmail, "wrong-password")
		require.Error(t, err)

		if i < 5 {
			requireAPIStatus(t, err, http.StatusUnauthorized, "should fail auth, not throttling")
		} else {
			lastErr = err
		}
	}

	var apiErr *ssoclient.APIError
	require.ErrorAs(t, lastErr, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode,
		"sixth rapid attempt should be rate limited")

	t.Logf("Login rate limited after 5 attempts")
}
