// Package errors provides structured error types shared by the CLI and
// the HTTP API.
//
// Error codes are machine-readable and map directly onto HTTP status
// codes at the API boundary, while the wrapped cause is preserved for
// logging.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid sku: %s", sku)
//	if errors.HasCode(err, errors.ErrCodeInvalidInput) {
//	    // 400
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save planogram %s", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidAction Code = "INVALID_ACTION"

	// Resource not found
	ErrCodeNotFound Code = "NOT_FOUND"

	// Backend failures
	ErrCodeStorage  Code = "STORAGE_ERROR"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, enabling errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// New creates a structured error with the given code and message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a structured error that wraps cause with a code and message.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf extracts the error code from err, or ErrCodeInternal if err is
// not a structured error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps an error code to an HTTP status code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidID, ErrCodeInvalidAction:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
