// Package apperrors defines the application error taxonomy. Errors created
// here carry the HTTP status they map to, so handlers can translate any
// service error into the uniform response envelope without string matching.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error with an associated HTTP status code.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string // optional per-field validation detail
	Err     error             // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a 400 error for malformed or missing input.
func Validation(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// ValidationFields returns a 400 error carrying per-field messages.
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Fields: fields}
}

// NotFound returns a 404 error for an absent resource.
func NotFound(resource, id string) *Error {
	if id == "" {
		return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf("%s not found", resource)}
	}
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// Unauthorized returns a 401 error for missing or invalid authentication.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden returns a 403 error for an authenticated caller lacking access.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// Internal wraps an unexpected failure as a 500. The wrapped cause is kept
// for logs; the message is what callers may surface.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// StatusOf returns the HTTP status for err: the carried status for an
// application error, 500 for anything else.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// IsStatus reports whether err is an application error with the given status.
func IsStatus(err error, status int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == status
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsStatus(err, http.StatusBadRequest) }
