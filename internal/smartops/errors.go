package smartops

import (
	"errors"
	"fmt"
)

// OpError represents a failure of a smart row operation.
//
// Business-level outcomes are returned as values: callers surface the
// message as a non-fatal notification, never a crash. The code makes
// the category machine-checkable without string matching.
type OpError struct {
	// Code identifies the error category.
	Code OpErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// OpErrorCode categorizes operation errors.
type OpErrorCode string

const (
	// ErrCodeNotFound indicates an absent row ID or index. Benign:
	// deletes no-op on unknown IDs, reads answer ok=false. Surfaced
	// as an error only where a caller asked for something positional
	// that cannot exist.
	ErrCodeNotFound OpErrorCode = "NOT_FOUND"

	// ErrCodeInvalidArgument indicates malformed configuration or
	// criteria (e.g. an unsupported operator, a negative minimum).
	ErrCodeInvalidArgument OpErrorCode = "INVALID_ARGUMENT"

	// ErrCodeCancelled indicates cooperative cancellation observed
	// between steps. Work already committed is not rolled back.
	ErrCodeCancelled OpErrorCode = "CANCELLED"

	// ErrCodeUnexpected wraps any lower-level failure.
	ErrCodeUnexpected OpErrorCode = "UNEXPECTED"
)

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *OpError) Unwrap() error {
	return e.Err
}

// NewInvalidArgumentError creates an INVALID_ARGUMENT error.
func NewInvalidArgumentError(format string, args ...any) *OpError {
	return &OpError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NewCancelledError creates a CANCELLED error wrapping the context error.
func NewCancelledError(cause error) *OpError {
	return &OpError{Code: ErrCodeCancelled, Message: "operation cancelled", Err: cause}
}

// NewUnexpectedError creates an UNEXPECTED error wrapping the cause.
func NewUnexpectedError(message string, cause error) *OpError {
	return &OpError{Code: ErrCodeUnexpected, Message: message, Err: cause}
}

// codeOf extracts the OpErrorCode from an error chain, or "" when the
// error is not an OpError.
func codeOf(err error) OpErrorCode {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND operation error.
func IsNotFound(err error) bool { return codeOf(err) == ErrCodeNotFound }

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT operation error.
func IsInvalidArgument(err error) bool { return codeOf(err) == ErrCodeInvalidArgument }

// IsCancelled reports whether err is a CANCELLED operation error.
func IsCancelled(err error) bool { return codeOf(err) == ErrCodeCancelled }

// IsUnexpected reports whether err is an UNEXPECTED operation error.
func IsUnexpected(err error) bool { return codeOf(err) == ErrCodeUnexpected }
