package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenwatcher/internal/types"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   error
		wantDetail string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"token expired"}`, ErrUnauthorized, "token expired"},
		{"unauthorized no body", http.StatusUnauthorized, ``, ErrUnauthorized, "session expired, please log in again"},
		{"forbidden", http.StatusForbidden, `{"detail":"admin only"}`, ErrForbidden, "admin only"},
		{"server error", http.StatusInternalServerError, ``, ErrServer, "request failed with status 500"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"detail":"webhook_url invalid"}`, ErrServer, "webhook_url invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL)
			_, err := client.ListWatchers(context.Background(), "tok")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
		})
	}
}

func TestUnauthorizedHookFires(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL)
	fired := 0
	client.SetUnauthorizedHook(func() { fired++ })

	_, err := client.Me(context.Background(), "dead-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, fired)
}

func TestHookNotFiredOnForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := New(srv.URL)
	fired := 0
	client.SetUnauthorizedHook(func() { fired++ })

	_, err := client.ListPlans(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, fired, "forbidden must not end the session")
}

func TestTransportError(t *testing.T) {
	// A closed server is the cheapest unreachable backend.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL)
	_, err := client.ListWatchers(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.ListWatchers(context.Background(), "my-token")
	require.NoError(t, err)

	assert.Equal(t, "Bearer my-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/token", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())

		if r.PostForm.Get("username") != "a@b.com" || r.PostForm.Get("password") != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "jwt-xyz", TokenType: "bearer"})
	}))
	defer srv.Close()

	client := New(srv.URL)

	token, err := client.Login(context.Background(), "a@b.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "jwt-xyz", token)

	_, err = client.Login(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	// The server's message is surfaced verbatim.
	assert.Equal(t, "Incorrect email or password", err.Error())
}

func TestLoginRejectionDoesNotFireHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL)
	fired := false
	client.SetUnauthorizedHook(func() { fired = true })

	_, err := client.Login(context.Background(), "a@b.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, fired, "a rejected login is not an expired session")
}

func TestDeleteTolerates204(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(srv.URL)
	assert.NoError(t, client.DeleteWatcher(context.Background(), "tok", 7))
}

func TestMeDecodesProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/users/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(types.User{
			ID: 1, Email: "a@b.com", IsActive: true,
			PlanName: "Pro", WatcherCount: 3, WatcherLimit: 25,
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	user, err := client.Me(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, 25, user.WatcherLimit)
}
