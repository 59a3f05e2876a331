// Package apperr defines the error kinds shared by every layer of the
// interview backend. Callers match kinds with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrConfig       = errors.New("configuration error")
	ErrValidation   = errors.New("validation error")
	ErrInvalidState = errors.New("invalid state")
	ErrConnection   = errors.New("llm unavailable")
	ErrGeneration   = errors.New("llm generation failed")
	ErrTimeout      = errors.New("deadline exceeded")
	ErrNotFound     = errors.New("not found")

	// ErrPersistence tags write-behind failures in logs; it never reaches a
	// caller.
	ErrPersistence = errors.New("persistence warning")
)

// Error carries a kind, a human readable reason and an optional cause.
type Error struct {
	Kind    error
	Reason  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() []error {
	if e.Wrapped != nil {
		return []error{e.Kind, e.Wrapped}
	}
	return []error{e.Kind}
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func Config(format string, args ...any) *Error       { return newf(ErrConfig, format, args...) }
func Validation(format string, args ...any) *Error   { return newf(ErrValidation, format, args...) }
func InvalidState(format string, args ...any) *Error { return newf(ErrInvalidState, format, args...) }
func NotFound(format string, args ...any) *Error     { return newf(ErrNotFound, format, args...) }
func Timeout(format string, args ...any) *Error      { return newf(ErrTimeout, format, args...) }

// Connection wraps cause as an ErrConnection.
func Connection(reason string, cause error) *Error {
	return &Error{Kind: ErrConnection, Reason: reason, Wrapped: cause}
}

// Generation wraps cause as an ErrGeneration.
func Generation(reason string, cause error) *Error {
	return &Error{Kind: ErrGeneration, Reason: reason, Wrapped: cause}
}
