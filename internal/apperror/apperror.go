// Package apperror defines the error kinds the jobs service raises itself.
//
// Transports switch on Kind to choose a response status; anything that is not
// an *Error (store failures, bugs) is rendered as a generic internal error.
package apperror

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Kind tags an Error so callers can pattern-match without string compares.
type Kind string

const (
	KindInvalidInput Kind = "INVALID_INPUT"
	KindDuplicate    Kind = "DUPLICATE"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
)

// Error is a terminal, caller-facing failure.
type Error struct {
	kind    Kind
	message string
	details []string
}

func New(kind Kind, message string, details ...string) *Error {
	return &Error{kind: kind, message: message, details: details}
}

// InvalidInput reports malformed or empty caller input.
func InvalidInput(message string, details ...string) *Error {
	return New(KindInvalidInput, message, details...)
}

// Duplicate reports a uniqueness violation.
func Duplicate(message string) *Error { return New(KindDuplicate, message) }

// NotFound reports that no row matched the given key.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Unauthorized reports a missing or insufficient caller identity.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func (e *Error) Error() string     { return e.message }
func (e *Error) Kind() Kind        { return e.kind }
func (e *Error) Message() string   { return e.message }
func (e *Error) Details() []string { return e.details }

func (e *Error) HTTPStatus() int {
	switch e.kind {
	case KindInvalidInput, KindDuplicate:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) GRPCCode() codes.Code {
	switch e.kind {
	case KindInvalidInput:
		return codes.InvalidArgument
	case KindUnauthorized:
		return codes.Unauthenticated
	case KindNotFound:
		return codes.NotFound
	case KindDuplicate:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.kind == k
}
