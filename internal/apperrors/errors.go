// Package apperrors carries the domain error taxonomy. Services return
// kind-tagged errors; handlers translate the kind to an HTTP status exactly
// once at the boundary.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain rule violation.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindConflict
)

// Error is a domain error with a caller-facing message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// NewValidation reports malformed or missing input.
func NewValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// NewNotFound reports a referenced id that does not resolve.
func NewNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// NewUnauthorized reports an actor lacking permission.
func NewUnauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

// NewConflict reports a state conflict such as a duplicate email or member.
func NewConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// KindOf extracts the kind from an error chain, defaulting to internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the API returns for it.
// Not-found and conflict map to 400 by API convention.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindNotFound, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
