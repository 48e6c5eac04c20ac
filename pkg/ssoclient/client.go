// Package ssoclient is a small typed client for the signon HTTP API, used by
// the end-to-end tests and handy for Go consumers of the service.
package ssoclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client

	// SessionToken, when set, is sent as a bearer credential.
	SessionToken string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ssoclient: %d %s: %s", e.StatusCode, e.Body.Error, e.Body.ErrorDescription)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.SessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.SessionToken)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Login authenticates and remembers the session token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/login", LoginRequest{Email: email, Password: password}, &out)
	if err == nil {
		c.SessionToken = out.Token
	}
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/register", req, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/v1/logout", nil, nil)
	if err == nil {
		c.SessionToken = ""
	}
	return err
}

func (c *Client) Session(ctx context.Context) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodGet, "/v1/session", nil, &out)
	return out, err
}

func (c *Client) MintRegistrationToken(ctx context.Context, email string) (MintTokenResponse, error) {
	var out MintTokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/tokens/registration", MintTokenRequest{Email: email}, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]UserResponse, error) {
	var out []UserResponse
	err := c.do(ctx, http.MethodGet, "/v1/users", nil, &out)
	return out, err
}

func (c *Client) CreateApp(ctx context.Context, name, baseURL string) (AppResponse, error) {
	var out AppResponse
	err := c.do(ctx, http.MethodPost, "/v1/apps", CreateAppRequest{Name: name, BaseURL: baseURL}, &out)
	return out, err
}

func (c *Client) ListApps(ctx context.Context) ([]AppResponse, error) {
	var out []AppResponse
	err := c.do(ctx, http.MethodGet, "/v1/apps", nil, &out)
	return out, err
}

func (c *Client) DeleteApp(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/apps/"+id, nil, nil)
}

func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out)
	return out, err
}
