// Package apperr defines the typed failures returned by the ticket and
// statistics core. Handlers map them to ephemeral replies.
package apperr

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failure.
type ErrorType string

const (
	TypeNotFound           ErrorType = "not_found"
	TypeUnauthorized       ErrorType = "unauthorized"
	TypeInvalidState       ErrorType = "invalid_state"
	TypeCapacityExceeded   ErrorType = "capacity_exceeded"
	TypeStorageUnavailable ErrorType = "storage_unavailable"
	TypeValidation         ErrorType = "validation_error"
)

// Error is a failure with a type and a user-facing message.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same type, so sentinel comparisons like
// errors.Is(err, apperr.ErrNotFound) work across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == ""
}

// Sentinels for errors.Is.
var (
	ErrNotFound           = &Error{Type: TypeNotFound}
	ErrUnauthorized       = &Error{Type: TypeUnauthorized}
	ErrInvalidState       = &Error{Type: TypeInvalidState}
	ErrCapacityExceeded   = &Error{Type: TypeCapacityExceeded}
	ErrStorageUnavailable = &Error{Type: TypeStorageUnavailable}
	ErrValidation         = &Error{Type: TypeValidation}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Type: TypeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Type: TypeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) *Error {
	return &Error{Type: TypeInvalidState, Message: fmt.Sprintf(format, args...)}
}

func CapacityExceeded(format string, args ...any) *Error {
	return &Error{Type: TypeCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Type: TypeValidation, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a driver error. A nil err returns nil.
func Storage(err error, op string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Type: TypeStorageUnavailable, Message: op, Err: err}
}

// TypeOf returns the type of the first *Error in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ""
}

// UserMessage is what a handler shows the actor for err.
func UserMessage(err error) string {
	var ae *Error
	if !errors.As(err, &ae) {
		return "An unexpected error occurred."
	}
	switch ae.Type {
	case TypeStorageUnavailable:
		return "The database is unavailable right now, please try again later."
	case TypeUnauthorized:
		if ae.Message == "" {
			return "You do not have permission to do that."
		}
	}
	return ae.Message
}
