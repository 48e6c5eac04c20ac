package sso_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/signonhq/signon/pkg/ssoclient"
)

/*
 * Common constants and helper functions for sso service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "signon-sso-test:latest"

	adminEmail    = "admin@example.com"
	adminName     = "Administrator"
	adminPassword = "Admin123!"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building SSO Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up SSO Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/sso/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// setupContainer starts the sso service in a container with relaxed rate
// limits and returns the base URL. Most tests use this; rate limit tests use
// setupContainerWithDefaultRateLimits.
func setupContainer(t *testing.T) (string, func()) {
	return startContainer(t, map[string]string{
		// E2E tests make many rapid requests; loosen the per-IP limits so
		// they exercise behaviour, not throttling.
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	})
}

// setupContainerWithDefaultRateLimits starts the service with production
// rate limits, for testing that limiting actually works.
func setupContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"SSO_STORE":          "sqlite",
		"SSO_DATABASE_FILE":  "/tmp/sso.db",
		"SSO_ADMIN_EMAIL":    adminEmail,
		"SSO_ADMIN_NAME":     adminName,
		"SSO_ADMIN_PASSWORD": adminPassword,
		"ENV":                "test",
		"LOG_LEVEL":          "info",
		"LOG_FORMAT":         "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// adminClient logs in as the seeded administrator.
func adminClient(t *testing.T, baseURL string) *ssoclient.Client {
	t.Helper()

	c := ssoclient.New(baseURL)
	_, err := c.Login(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err, "admin login should succeed")
	return c
}

// registerUser mints a registration token as admin and redeems it, returning
// a logged-in client for the new user.
func registerUser(t *testing.T, baseURL string, admin *ssoclient.Client, email, name, password string) *ssoclient.Client {
	t.Helper()
	ctx := context.Background()

	mint, err := admin.MintRegistrationToken(ctx, email)
	require.NoError(t, err)
	require.NotEmpty(t, mint.Token)

	c := ssoclient.New(baseURL)
	require.NoError(t, c.Register(ctx, ssoclient.RegisterRequest{
		Token:    mint.Token,
		Email:    email,
		Name:     name,
		Password: password,
	}))

	_, err = c.Login(ctx, email, password)
	require.NoError(t, err)
	return c
}

// requireAPIStatus asserts err is an APIError with the given status code.
func requireAPIStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var apiErr *ssoclient.APIError
	require.ErrorAs(t, err, &apiErr, msg)
	require.Equal(t, status, apiErr.StatusCode, msg)
}
