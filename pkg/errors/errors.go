// Package errors provides structured error types for dotflow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Kinds
//
// The mutation API and its authoring surfaces report four kinds of failure:
//
//   - VALIDATION_FAILED: malformed identifier, label or style value. Always
//     raised before the model is touched.
//   - NODE_NOT_FOUND: an edge endpoint does not resolve to any node.
//   - PARSE_ERROR: a grammar line matches no statement. Reported as a
//     [*ParseError] carrying the line number and raw text.
//   - EXPORT_*: the external renderer is missing, rejected its input, or
//     timed out.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "invalid node ID: %q", id)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExportRejected, origErr, "render %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model errors
	ErrCodeValidation   Code = "VALIDATION_FAILED"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeScope        Code = "INVALID_SCOPE"

	// Grammar errors
	ErrCodeParse Code = "PARSE_ERROR"

	// Export errors
	ErrCodeToolNotFound      Code = "EXPORT_TOOL_NOT_FOUND"
	ErrCodeExportRejected    Code = "EXPORT_REJECTED"
	ErrCodeExportTimeout     Code = "EXPORT_TIMEOUT"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Configuration errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

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
// It walks the whole error chain, so an *Error wrapped inside a
// [*ParseError] or another *Error is still found.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the chain holds no *Error.
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
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ParseError reports a grammar line that could not be applied.
// Cause is either a PARSE_ERROR for unrecognized syntax or the mutation
// error (validation, node not found) raised while applying the line.
type ParseError struct {
	Line  int    // 1-based line number
	Text  string // raw line text, untrimmed
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %s", e.Line, e.Text, UserMessage(e.Cause))
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Cause }

// Code reports the code of the underlying cause, or PARSE_ERROR.
func (e *ParseError) Code() Code {
	if c := GetCode(e.Cause); c != "" {
		return c
	}
	return ErrCodeParse
}
