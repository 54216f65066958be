// Package apperr defines the error kinds shared by the backend handlers and the
// client-side persistence gateway.
package apperr

import (
	"errors"
	"net/http"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuth          = errors.New("auth error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUpstream      = errors.New("upstream error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
)

// Error carries a kind, a message safe to show to a user and an optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Kind.Error() + ": " + e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) error { return newError(ErrValidation, msg, nil) }
func Auth(msg string) error { return newError(ErrAuth, msg, nil) }
func NotFound(msg string) error { return newError(ErrNotFound, msg, nil) }
func Conflict(msg string) error { return newError(ErrConflict, msg, nil) }
func Upstream(msg string, err error) error { return newError(ErrUpstream, msg, err) }
func Configuration(msg string, err error) error { return newError(ErrConfiguration, msg, err) }
func Transport(msg string, err error) error { return newError(ErrTransport, msg, err) }

// Message returns the user-facing message of err, or fallback when err carries
// none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return fallback
}

// Status maps an error kind to the HTTP status the API answers with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
