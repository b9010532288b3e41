// Package errors provides structured error types for the Inkwell engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - SERVICE_*: Reasoning-service boundary failures
//   - FONT_*: Font loading and glyph lookup failures
//   - INTERNAL_*: Unexpected internal errors
//
// Note what is deliberately NOT an error: an empty stroke list (resolved via
// documented defaults), a degraded placement (reported as data on the
// Placement), a glyph without an outline (treated as a space), and
// cancellation (a normal terminal state carried by context.Canceled).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeServiceBadReply, "reply missing response text")
//	if errors.Is(err, errors.ErrCodeServiceBadReply) {
//	    // Handle malformed reply
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFontUnavailable, origErr, "load font %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidText   Code = "INVALID_TEXT"

	// Reasoning-service boundary errors
	ErrCodeService         Code = "SERVICE_ERROR"
	ErrCodeServiceBadReply Code = "SERVICE_BAD_REPLY"
	ErrCodeServiceTimeout  Code = "SERVICE_TIMEOUT"

	// Font and glyph errors
	ErrCodeFontUnavailable Code = "FONT_UNAVAILABLE"
	ErrCodeFontParse       Code = "FONT_PARSE_ERROR"

	// Internal errors
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
