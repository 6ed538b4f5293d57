// Package domain holds the error vocabulary shared by the mock API's services
// and handlers.
package domain

import "errors"

// Services wrap these so handlers can pick a status code with errors.Is
// without knowing where the failure came from.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidToken = errors.New("invalid token")
)

// Error is a domain error carrying the message shown to the API caller.
// Kind is one of the sentinels above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}
