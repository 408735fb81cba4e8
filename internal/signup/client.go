// Package signup registers accounts against the external user service.
package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/beatreach/beatreach/internal/types"
)

var (
	// ErrUnavailable indicates the registration service could not be reached.
	ErrUnavailable = errors.New("registration service unavailable")

	// ErrRejected indicates the registration service refused the request,
	// e.g. an already-registered email.
	ErrRejected = errors.New("registration rejected")
)

// Client calls the external user-registration endpoint.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
}

// NewClient creates a registration client for the given service base URL.
// The version string is sent on every request for server-side compatibility
// checks.
func NewClient(baseURL, version string) *Client {
	return &Client{
		baseURL:    baseURL,
		version:    version,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Register creates an account on the external service and returns the
// created account as the service reports it.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.ExternalAccount, error) {
	endpoint, err := url.JoinPath(c.baseURL, "/users")
	if err != nil {
		return nil, fmt.Errorf("build registration URL: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode registration request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build registration request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Beatreach-Version", c.version)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var account types.ExternalAccount
		if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
			return nil, fmt.Errorf("%w: invalid response body: %s", ErrUnavailable, err.Error())
		}
		return &account, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: %d %s", ErrRejected, resp.StatusCode, string(detail))
	default:
		return nil, fmt.Errorf("%w: service returned %d", ErrUnavailable, resp.StatusCode)
	}
}
