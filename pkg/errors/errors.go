// Package errors provides structured error types for phylolane.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, HTTP API and library
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Layout and index failures carry a dedicated code so callers can decide
// whether to abort, truncate or report:
//   - MALFORMED_HIERARCHY: missing/duplicate root, dangling parent, cycle
//   - LANE_EXHAUSTION: too many simultaneously live lineages in one scope
//   - DUPLICATE_ESTIMATE: conflicting pairwise estimates for one key
//
// Input errors use INVALID_*, and NOT_FOUND marks missing stored resources.
// Absence of a pairwise estimate is not an error and has no code.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedHierarchy, "unknown parent %q", id)
//	if errors.Is(err, errors.ErrCodeMalformedHierarchy) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout and index errors
	ErrCodeMalformedHierarchy Code = "MALFORMED_HIERARCHY"
	ErrCodeLaneExhaustion     Code = "LANE_EXHAUSTION"
	ErrCodeDuplicateEstimate  Code = "DUPLICATE_ESTIMATE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// LaneExhaustionError reports the lineage that could not be given a lane.
// It unwraps to an *Error with ErrCodeLaneExhaustion so [Is] matches it.
type LaneExhaustionError struct {
	NodeID   string  // Lineage that found every lane occupied
	Origin   float64 // Its origin time
	Occupied int     // Number of occupied lanes in its scope
}

// Error implements the error interface.
func (e *LaneExhaustionError) Error() string {
	return fmt.Sprintf("%s: no free lane for %q at t=%g (%d lanes occupied)",
		ErrCodeLaneExhaustion, e.NodeID, e.Origin, e.Occupied)
}

// Unwrap exposes the coded form of the error.
func (e *LaneExhaustionError) Unwrap() error {
	return New(ErrCodeLaneExhaustion, "no free lane for %q", e.NodeID)
}

// Code returns the error code for this error type.
func (e *LaneExhaustionError) Code() Code {
	return ErrCodeLaneExhaustion
}
