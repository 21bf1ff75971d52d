package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying API failures with errors.Is.
var (
	// ErrInvalidCredentials means the login endpoint rejected the
	// email/password pair. User-correctable, shown inline on the form.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means an authenticated call came back 401: the token
	// is expired or revoked. Policy is to clear the session.
	ErrUnauthorized = errors.New("session expired or invalid")

	// ErrForbidden means the server understood the token but refused the
	// operation (e.g. admin endpoints for a non-admin). Does not end the
	// session.
	ErrForbidden = errors.New("forbidden")

	// ErrServer covers every other non-2xx response.
	ErrServer = errors.New("server error")

	// ErrUnreachable is a transport-level failure before any HTTP status
	// existed. Treated the same as a server error for display.
	ErrUnreachable = errors.New("backend unreachable")
)

// Error is the normalized error every client method returns for a failed
// call. Detail carries the server's structured error body verbatim when one
// was present, else a generic HTTP-status message. Raw transport errors never
// escape the client.
type Error struct {
	StatusCode int
	Detail     string
	kind       error
}

func (e *Error) Error() string {
	return e.Detail
}

// Unwrap exposes the sentinel classification to errors.Is.
func (e *Error) Unwrap() error {
	return e.kind
}

// errorBody is the backend's structured error shape.
type errorBody struct {
	Detail string `json:"detail"`
}

func newStatusError(status int, detail string, kind error) *Error {
	if detail == "" {
		detail = fmt.Sprintf("request failed with status %d", status)
	}
	return &Error{StatusCode: status, Detail: detail, kind: kind}
}

func newTransportError(err error) *Error {
	return &Error{
		Detail: fmt.Sprintf("backend unreachable: %v", err),
		kind:   ErrUnreachable,
	}
}
