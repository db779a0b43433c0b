package errors

import (
	"errors"
	"fmt"
)

// Error codes shared across the diagnosis pipeline.
const (
	// ErrCodeUnknownKind indicates the caller supplied a resource kind
	// outside the closed set of supported kinds.
	ErrCodeUnknownKind = "UNKNOWN_KIND"

	// ErrCodeCollectionFailed indicates upstream fact gathering failed.
	// The engine never retries collection; retry policy belongs to the caller.
	ErrCodeCollectionFailed = "COLLECTION_FAILED"

	// ErrCodeMalformedRule indicates a static rule definition failed to
	// parse or compile at load time. Fatal at startup.
	ErrCodeMalformedRule = "MALFORMED_RULE"

	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal = "INTERNAL"
)

// StructuredError carries a machine-readable code alongside a human-readable
// message and an optional wrapped cause. It is the error type surfaced at
// every package boundary so callers can branch on Code without string matching.
type StructuredError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *StructuredError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a StructuredError with the same code.
// This lets callers use errors.Is with sentinel instances.
func (e *StructuredError) Is(target error) bool {
	var se *StructuredError
	if !errors.As(target, &se) {
		return false
	}
	return e.Code == se.Code
}

// New creates a StructuredError with the given code and formatted message.
func New(code, format string, args ...any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a StructuredError wrapping cause with the given code and message.
func Wrap(err error, code, format string, args ...any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// CodeOf extracts the code from err if it is (or wraps) a StructuredError.
// Returns ErrCodeInternal for any other error, and "" for nil.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
