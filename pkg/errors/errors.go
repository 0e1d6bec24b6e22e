// Package errors provides structured error types for the flowstudio
// application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation and connection rejections
//   - *_NOT_FOUND: Resource not found
//   - NETWORK_*/STORAGE_*: Infrastructure failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidWeight, "weight must be positive, got %d", w)
//	if errors.Is(err, errors.ErrCodeInvalidWeight) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "saving graph %s", id)
package errors

import (
	"errors"
	"fmt"

	"github.com/mistaa/flowstudio/pkg/flow"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation and connection rejections
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidNodeType     Code = "INVALID_NODE_TYPE"
	ErrCodeInvalidWeight       Code = "INVALID_WEIGHT"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeSelfLoop            Code = "INVALID_CONNECTION_SELF_LOOP"
	ErrCodeUnknownEndpoint     Code = "INVALID_CONNECTION_UNKNOWN_ENDPOINT"
	ErrCodeInvalidSource       Code = "INVALID_CONNECTION_SOURCE"
	ErrCodeInvalidTarget       Code = "INVALID_CONNECTION_TARGET"
	ErrCodeDuplicateConnection Code = "INVALID_CONNECTION_DUPLICATE"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeGraphNotFound Code = "GRAPH_NOT_FOUND"
	ErrCodeNodeNotFound  Code = "NODE_NOT_FOUND"

	// Infrastructure errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Authentication errors
	ErrCodeUnauthorized   Code = "UNAUTHORIZED"
	ErrCodeSessionExpired Code = "SESSION_EXPIRED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FromReason converts a connection rejection reason into a structured error
// carrying the matching code. ReasonNone returns nil.
func FromReason(r flow.Reason) *Error {
	var code Code
	switch r {
	case flow.ReasonNone:
		return nil
	case flow.ReasonSelfLoop:
		code = ErrCodeSelfLoop
	case flow.ReasonUnknownEndpoint:
		code = ErrCodeUnknownEndpoint
	case flow.ReasonInvalidSource:
		code = ErrCodeInvalidSource
	case flow.ReasonInvalidTarget:
		code = ErrCodeInvalidTarget
	case flow.ReasonDuplicateEdge:
		code = ErrCodeDuplicateConnection
	default:
		code = ErrCodeInvalidInput
	}
	return New(code, "%s", r.Message())
}
