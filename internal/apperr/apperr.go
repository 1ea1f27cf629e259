// Package apperr provides typed error kinds for store and capture operations.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a category of failure that callers can branch on.
type Code string

const (
	// Store errors
	ErrDuplicateURL      Code = "DUPLICATE_URL"
	ErrDuplicateTitle    Code = "DUPLICATE_TITLE"
	ErrDuplicateRelation Code = "DUPLICATE_RELATION"
	ErrAlreadyTagged     Code = "ALREADY_TAGGED"
	ErrSelfRelation      Code = "SELF_RELATION"
	ErrNotFound          Code = "NOT_FOUND"
	ErrTagInvalid        Code = "TAG_INVALID"
	ErrInvalidTarget     Code = "INVALID_TARGET"
	ErrStore             Code = "STORE_ERROR"

	// Capture errors
	ErrInvalidURL Code = "INVALID_URL"
	ErrFetch      Code = "FETCH_ERROR"
	ErrExtraction Code = "EXTRACTION_FAILURE"

	// Migration errors are fatal: the process must not serve operations
	// at the wrong schema version.
	ErrMigration Code = "MIGRATION_FAILED"
)

// Error carries a code, a human-readable message naming the offending
// identifier/URL/title, and an optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, err error, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or ErrStore if err is untyped.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrStore
}
