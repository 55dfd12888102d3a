package azspeech

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidResponse is returned when a successful response body does not
// match the expected schema.
var ErrInvalidResponse = errors.New("azspeech: invalid response")

// Error represents an error reported by the speech service.
type Error struct {
	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"-"`

	// Code is the service error code (e.g., "InvalidRequest", "400036").
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("azspeech: %s (status=%d)", e.Message, e.HTTPStatus)
	}
	return fmt.Sprintf("azspeech: %s (status=%d, code=%s)", e.Message, e.HTTPStatus, e.Code)
}

// IsNotFound returns true if the addressed resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == http.StatusNotFound
}

// IsUnauthorized returns true if the subscription key was rejected.
func (e *Error) IsUnauthorized() bool {
	return e.HTTPStatus == http.StatusUnauthorized || e.HTTPStatus == http.StatusForbidden
}

// IsRateLimit returns true if this is a rate limit error.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsServerError returns true if this is a server-side error.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// Retryable returns true if the request can be retried.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError extracts *Error from an error.
//
// Example:
//
//	if e, ok := azspeech.AsError(err); ok {
//	    if e.IsUnauthorized() {
//	        // Ask for a new key
//	    }
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFound reports whether err is a service error for a missing resource.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsNotFound()
}
