// Package api is the HTTP client for the ShopBot backend.
package api

import (
	"errors"
	"fmt"
)

// ErrUnreachable indicates the request never reached a server (DNS failure,
// connection refused, timeout). Callers use errors.Is() to show a distinct
// "backend unreachable" message instead of a generic failure.
var ErrUnreachable = errors.New("unable to connect to server")

// Error is a failure reported by a reached server: either the structured
// {"error": ...} body or an error synthesized from the HTTP status line.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsUnreachable reports whether err means the backend never responded.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// statusError synthesizes an Error from an HTTP status when the response body
// carried no parseable error message.
func statusError(code int, status string) *Error {
	return &Error{Status: code, Message: fmt.Sprintf("HTTP %s", status)}
}
