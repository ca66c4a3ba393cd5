// Package apperrors defines the coded errors returned by the service layer.
// Callers match them with errors.Is against the Err* values, which compare
// by code only.
package apperrors

import "github.com/diewo77/epic-crm/validation"

// Code is a machine-readable error category.
type Code string

const (
	CodeForbidden       Code = "forbidden"
	CodeNotFound        Code = "not_found"
	CodeValidation      Code = "validation_failed"
	CodeConflict        Code = "conflict"
	CodeUnauthenticated Code = "unauthenticated"
	CodeInternal        Code = "internal"
)

// Error is the domain error type.
type Error struct {
	Code     Code
	Message  string            // user-facing reason
	Metadata map[string]string // e.g. entity, operation
	Fields   validation.Violations
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Targets for errors.Is.
var (
	ErrForbidden       = &Error{Code: CodeForbidden}
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrValidation      = &Error{Code: CodeValidation}
	ErrConflict        = &Error{Code: CodeConflict}
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated}
)

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates an error carrying extra context.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates an error around an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Forbidden is a denial with a fixed, user-visible reason.
func Forbidden(reason string) *Error {
	return New(CodeForbidden, reason)
}

// NotFound reports a missing record of the named entity.
func NotFound(entity string) *Error {
	return WithMetadata(CodeNotFound, entity+" not found", map[string]string{"entity": entity})
}

// Validation reports field errors.
func Validation(v validation.Violations) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: v}
}

// CodeOf extracts the code of err, or CodeInternal.
func CodeOf(err error) Code {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return CodeInternal
}
