// Package apperror is the single error shape returned by application services.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnavailable Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidCredentials
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unavailable"
	}
}

// Error carries a Kind, a message safe to show to clients and an internal cause.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values by Kind, so errors.Is(err, apperror.NotFound(""))
// style checks work without comparing messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Message: "service unavailable", Err: err}
}

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func InvalidCredentials(msg string) *Error { return New(KindInvalidCredentials, msg) }

func InvalidInput(msg string, details map[string]string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg, Details: details}
}

// KindOf returns the Kind of err; anything that is not an *Error is Unavailable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}

// Sentinels for errors.Is checks.
var (
	ErrUnauthenticated    = New(KindUnauthenticated, "unauthenticated")
	ErrForbidden          = New(KindForbidden, "forbidden")
	ErrNotFound           = New(KindNotFound, "not found")
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid credentials")
	ErrInvalidInput       = New(KindInvalidInput, "invalid input")
	ErrUnavailable        = New(KindUnavailable, "service unavailable")
)
