package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"tokenwatcher/internal/logging"
	"tokenwatcher/internal/types"
)

// TokenResponse is the body returned by the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The endpoint takes
// form-encoded username/password, not JSON. A rejected login returns an
// *Error classified as ErrInvalidCredentials with the server's detail
// message verbatim.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.prepareRequest(req, "", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", newTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := readDetail(resp.Body)
		if detail == "" {
			detail = "login failed"
		}
		logging.Auth("login rejected with status %d", resp.StatusCode)
		return "", newStatusError(resp.StatusCode, detail, ErrInvalidCredentials)
	}

	var tr TokenResponse
	if err := decodeBody(resp.Body, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", &Error{StatusCode: resp.StatusCode, Detail: "login response missing access token", kind: ErrServer}
	}
	return tr.AccessToken, nil
}

// Register creates a new account. The caller still has to log in afterwards.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/register", "", nil, body, nil)
}

// Me resolves the bearer token into a user profile. A 401 here means the
// stored token is dead; callers must treat that as logout.
func (c *Client) Me(ctx context.Context, token string) (*types.User, error) {
	var user types.User
	if err := c.do(ctx, http.MethodGet, "/auth/users/me", token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount permanently deletes the authenticated account. The session
// is gone afterwards whether or not the server answered 204.
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/auth/users/me", token, nil, nil, nil)
}

func decodeBody(r io.Reader, out interface{}) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return &Error{Detail: fmt.Sprintf("malformed response body: %v", err), kind: ErrServer}
	}
	return nil
}
