// Package errors carries coded application errors so callers can branch on
// the kind of failure without matching message strings.
package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an error.
type Code string

const (
	// CodeUnknown indicates an uncategorized error.
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller supplied a bad value.
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound Code = "not_found"

	// CodeInvalidState indicates an operation was attempted against state
	// that cannot accept it, such as acting in a finished encounter.
	CodeInvalidState Code = "invalid_state"

	// CodeInternal indicates a bug or broken invariant.
	CodeInternal Code = "internal"
)

// Error is an application error with a code.
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta contains additional context
	Meta map[string]any
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern).
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context, preserving its code when it
// already carries one.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(appErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error under a specific code.
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// Helper constructors for common codes

// InvalidArgument creates an invalid argument error.
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error.
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a formatted not found error.
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidState creates an invalid state error.
func InvalidState(message string) *Error {
	return New(CodeInvalidState, message)
}

// InvalidStatef creates a formatted invalid state error.
func InvalidStatef(format string, args ...any) *Error {
	return Newf(CodeInvalidState, format, args...)
}

// Internal creates an internal error.
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates a formatted internal error.
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// Error checking functions

// Is checks whether the error carries the given code.
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsInvalidArgument checks for CodeInvalidArgument.
func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

// IsNotFound checks for CodeNotFound.
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsInvalidState checks for CodeInvalidState.
func IsInvalidState(err error) bool {
	return Is(err, CodeInvalidState)
}

// IsInternal checks for CodeInternal.
func IsInternal(err error) bool {
	return Is(err, CodeInternal)
}

// GetCode returns the error's code, or CodeUnknown for foreign errors.
func GetCode(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata, or nil for foreign errors.
func GetMeta(err error) map[string]any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Meta
	}
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
