package ir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeInvalidReference indicates a node index that does not exist
	// (or, for sequences, an invalid count/stride pair).
	ErrCodeInvalidReference ErrorCode = "INVALID_REFERENCE"

	// ErrCodeTypeMismatch indicates a scalar/color expectation mismatch.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeInvalidCoordinate indicates a coordinate arity other than 2, 3, 4 or 6.
	ErrCodeInvalidCoordinate ErrorCode = "INVALID_COORDINATE"

	// ErrCodeParse indicates malformed expression text.
	ErrCodeParse ErrorCode = "PARSE_ERROR"

	// ErrCodeIO indicates a raster export failure.
	ErrCodeIO ErrorCode = "IO_ERROR"

	// ErrCodeConcurrentMutation indicates a kernel fork could not be merged
	// because its parent grew after the fork was taken.
	ErrCodeConcurrentMutation ErrorCode = "CONCURRENT_MUTATION"
)

// Error is the error type returned by graph construction, evaluation and export.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the offending node index, when HasIndex is set.
	Index    Index
	HasIndex bool

	// Err is an optional underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.HasIndex {
		msg = fmt.Sprintf("%s (node=%d)", msg, e.Index)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidReference creates an INVALID_REFERENCE error for idx.
func NewInvalidReference(idx Index, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeInvalidReference,
		Message:  fmt.Sprintf(format, args...),
		Index:    idx,
		HasIndex: true,
	}
}

// NewTypeMismatch creates a TYPE_MISMATCH error for idx.
func NewTypeMismatch(idx Index, want, got ValueKind) *Error {
	return &Error{
		Code:     ErrCodeTypeMismatch,
		Message:  fmt.Sprintf("want %s, node produces %s", want, got),
		Index:    idx,
		HasIndex: true,
	}
}

// NewIOError wraps an export failure for path.
func NewIOError(path string, err error) *Error {
	return &Error{
		Code:    ErrCodeIO,
		Message: fmt.Sprintf("export %q", path),
		Err:     err,
	}
}

// HasCode reports whether err wraps an *Error with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsInvalidReference returns true if err is an INVALID_REFERENCE error.
func IsInvalidReference(err error) bool { return HasCode(err, ErrCodeInvalidReference) }

// IsTypeMismatch returns true if err is a TYPE_MISMATCH error.
func IsTypeMismatch(err error) bool { return HasCode(err, ErrCodeTypeMismatch) }

// IsParseError returns true if err is a PARSE_ERROR error.
func IsParseError(err error) bool { return HasCode(err, ErrCodeParse) }

// IsIOError returns true if err is an IO_ERROR error.
func IsIOError(err error) bool { return HasCode(err, ErrCodeIO) }
