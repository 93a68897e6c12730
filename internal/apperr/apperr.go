// Package apperr defines the error kinds the API exposes and their HTTP status codes.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an error for the HTTP boundary
type Kind int

const (
	KindInternal     Kind = iota // Unexpected failure, 500
	KindValidation               // Bad input, 400
	KindConflict                 // Duplicate state, 409
	KindUnauthorized             // Bad credentials or token, 401
	KindForbidden                // Authenticated but not allowed, 403
	KindNotFound                 // Missing resource, 404
)

// InternalMessage is the only text clients see for unexpected failures
const InternalMessage = "Terjadi kesalahan server"

// Error is a classified error with a client-facing message
type Error struct {
	Kind    Kind   // Classification
	Message string // Client-facing text
	Err     error  // Underlying cause, logged only
}

// Error returns the message followed by the cause, if any
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error { return e.Err }

// Validation rejects malformed input (400)
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Conflict reports a clash with existing state (409)
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Unauthorized reports missing or wrong credentials (401)
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden reports an authenticated caller without access (403)
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound reports a missing resource (404)
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Internal wraps an unexpected failure, keeping the cause for server-side logs
func Internal(err error, context string) *Error {
	return &Error{Kind: KindInternal, Message: InternalMessage, Err: errors.Wrap(err, context)}
}

// KindOf returns the kind of err; unclassified errors are internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing text for err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return InternalMessage
}

// Status maps a kind to its HTTP status code
func Status(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
