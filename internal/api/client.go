// Package api implements the REST client for the TokenWatcher backend.
// The backend itself is an external service; this package owns the full HTTP
// boundary: bearer header injection, request correlation IDs, and error
// normalization. Callers never see a raw transport error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"tokenwatcher/internal/logging"
)

// Client talks to the TokenWatcher REST API.
type Client struct {
	baseURL string
	http    *http.Client

	// onUnauthorized fires whenever an authenticated call returns 401.
	// The auth manager wires this to its logout transition so an expired
	// token ends the session no matter which call noticed it first.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHook registers the callback invoked on any 401 from an
// authenticated endpoint. Set once at wiring time, before concurrent use.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs a JSON request. token may be empty for unauthenticated
// endpoints. out may be nil when the response body is irrelevant; a 204 is
// always accepted as success.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out interface{}) error {
	reqID := uuid.NewString()
	rlog := logging.WithRequestID(logging.CategoryAPI, reqID)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.prepareRequest(req, token, reqID)

	rlog.Debug("%s %s", method, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		rlog.Error("%s %s transport failure: %v", method, path, err)
		return newTransportError(err)
	}
	defer resp.Body.Close()
	rlog.Debug("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{
				StatusCode: resp.StatusCode,
				Detail:     fmt.Sprintf("malformed response body: %v", err),
				kind:       ErrServer,
			}
		}
		return nil
	}

	apiErr := c.classify(resp)
	rlog.Error("%s %s failed: %s", method, path, apiErr.Detail)
	return apiErr
}

// prepareRequest adds the headers every call carries.
func (c *Client) prepareRequest(req *http.Request, token, reqID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tokenwatcher-cli")
	req.Header.Set("X-Request-ID", reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// classify turns a non-2xx response into a normalized *Error and fires the
// unauthorized hook for expired sessions.
func (c *Client) classify(resp *http.Response) *Error {
	detail := readDetail(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if detail == "" {
			detail = "session expired, please log in again"
		}
		return newStatusError(resp.StatusCode, detail, ErrUnauthorized)
	case http.StatusForbidden:
		return newStatusError(resp.StatusCode, detail, ErrForbidden)
	default:
		return newStatusError(resp.StatusCode, detail, ErrServer)
	}
}

// readDetail extracts the server's {"detail": ...} message if present.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Detail != "" {
		return eb.Detail
	}
	return ""
}
