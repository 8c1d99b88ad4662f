// Package errors provides structured error types for depends.
//
// Every failure that reaches the operator carries a machine-readable [Code]
// and a human-readable message. The CLI prints [UserMessage] and exits
// non-zero; tests match on codes with [Is].
//
// # Error Codes
//
// Codes fall into three groups:
//   - Target resolution: NOT_FOUND, AMBIGUOUS_SOLUTION, AMBIGUOUS_PROJECT,
//     NO_TARGET_FOUND. These are detected before analysis or UI work begins.
//   - Analysis: ANALYSIS_FAILED, INVALID_GRAPH, PACKAGE_NOT_FOUND, NETWORK_ERROR,
//     UNSUPPORTED.
//   - Everything else: INVALID_INPUT, INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeAmbiguousSolution, "found %d solution files in %s", n, dir)
//	if errors.Is(err, errors.ErrCodeAmbiguousSolution) {
//	    // Ask the operator to pass a file
//	}
//
//	err := errors.Wrap(errors.ErrCodeAnalysisFailed, origErr, "analyze %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Target resolution errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeAmbiguousSolution Code = "AMBIGUOUS_SOLUTION"
	ErrCodeAmbiguousProject  Code = "AMBIGUOUS_PROJECT"
	ErrCodeNoTargetFound     Code = "NO_TARGET_FOUND"

	// Analysis errors
	ErrCodeAnalysisFailed  Code = "ANALYSIS_FAILED"
	ErrCodeInvalidGraph    Code = "INVALID_GRAPH"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeNetwork         Code = "NETWORK_ERROR"
	ErrCodeUnsupported     Code = "UNSUPPORTED"

	// General errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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
// Only the outermost *Error in the chain is consulted, so a wrapped
// resolution error keeps the code it was wrapped with.
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
// For *Error types, returns the message (and the cause, when present)
// without the code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsResolution reports whether err is one of the target resolution failures.
// These are recoverable by the operator: fix the input and rerun.
func IsResolution(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeAmbiguousSolution, ErrCodeAmbiguousProject, ErrCodeNoTargetFound:
		return true
	default:
		return false
	}
}
