// Package errors defines stable error codes for every failure mode of a
// fingerprinting run, and a typed error that carries them.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// MissingTarget indicates a placeholder resolved to a non-existent or
	// non-regular file. Recoverable: the occurrence is left unrewritten.
	MissingTarget ErrorCode = "MISSING_TARGET"
	// CyclicDependency indicates the reference graph contains a cycle. Fatal.
	CyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"
	// IOFailure indicates a read, write, or rename failed for a reason other
	// than a simply-missing target (permissions, device errors). Fatal.
	IOFailure ErrorCode = "IO_FAILURE"
	// ConfigurationError indicates malformed configuration (bad pattern,
	// invalid precision). Detected before any file I/O. Fatal.
	ConfigurationError ErrorCode = "CONFIGURATION_ERROR"
)

// StampError represents a revstamp error with code, message, and optional details
type StampError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new StampError
func New(code ErrorCode, message string, cause error) *StampError {
	return &StampError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *StampError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *StampError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *StampError) WithDetails(details interface{}) *StampError {
	e.Details = details
	return e
}

// HasCode reports whether err is (or wraps) a StampError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var se *StampError
	if stderrors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// Fatal reports whether err must abort the run. Missing targets are the only
// recoverable failure mode; everything carrying a code is fatal.
func Fatal(err error) bool {
	var se *StampError
	if stderrors.As(err, &se) {
		return se.Code != MissingTarget
	}
	return err != nil
}
