// Package coreapi is a thin client for the Home Easy core API, the upstream
// service that owns identity, properties, tenancies and notifications. The
// portal gateway only speaks to the handful of endpoints it needs: login and
// the unread-notification counter.
package coreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the core API. The zero value is not usable; build
// one with NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a core API client with a sane request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doJSON performs a JSON request and decodes a JSON response into out.
// A non-empty token is sent as a bearer Authorization header.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token and the user's profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult

	err := c.doJSON(ctx, http.MethodPost, "/auth/login/", "", LoginRequest{
		Email:    email,
		Password: password,
	}, &result)
	if err != nil {
		return LoginResult{}, err
	}

	if result.Token == "" || result.User.ID == "" {
		return LoginResult{}, fmt.Errorf("core api returned incomplete login payload")
	}
	return result, nil
}

// UnreadCount fetches the caller's unread-notification count. The value is
// returned exactly as the API reported it; callers decide how to treat
// out-of-range values.
func (c *Client) UnreadCount(ctx context.Context, token string) (int, error) {
	var resp UnreadCountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/notifications/unread_count/", token, nil, &resp); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || json.Unmarshal(body, apiErr) != nil || apiErr.Code == "" {
		apiErr.Code = "upstream_error"
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
