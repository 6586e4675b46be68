package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation    = "validation_failed"
	CodeForbidden     = "forbidden"
	CodeNotFound      = "not_found"
	CodeUnsafeDelete  = "unsafe_item_deletion"
	CodeEmptyRoster   = "empty_roster"
	CodeStaleVersion  = "stale_content_version"
	CodeIntegrity     = "integrity_conflict"
	CodeInternalError = "internal_error"
)

type Error struct {
	Status    int
	Code      string
	Err       error
	Retryable bool
	Details   any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func Permission(format string, args ...any) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Conflict(code string, format string, args ...any) *Error {
	return New(http.StatusConflict, code, fmt.Errorf(format, args...))
}

// Integrity marks a store constraint violation; the caller may retry.
func Integrity(err error) *Error {
	e := New(http.StatusConflict, CodeIntegrity, fmt.Errorf("conflicting concurrent change: %w", err))
	e.Retryable = true
	return e
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err, 500 when it is not an *Error.
func StatusOf(err error) int {
	if ae, ok := As(err); ok && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

func IsCode(err error, code string) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}
