package engine

import (
	"fmt"

	"github.com/roach88/noisegraph/internal/ir"
)

// NewInvalidCoordinate creates an INVALID_COORDINATE error for a coordinate
// with n components.
func NewInvalidCoordinate(n int) *ir.Error {
	return &ir.Error{
		Code:    ir.ErrCodeInvalidCoordinate,
		Message: fmt.Sprintf("coordinate has %d components, want 2, 3, 4 or 6", n),
	}
}

// IsInvalidCoordinate returns true if err is an INVALID_COORDINATE error.
// Uses errors.As to handle wrapped errors.
func IsInvalidCoordinate(err error) bool {
	return ir.HasCode(err, ir.ErrCodeInvalidCoordinate)
}

// validArity reports whether n is a supported coordinate length.
func validArity(n int) bool {
	switch n {
	case 2, 3, 4, 6:
		return true
	default:
		return false
	}
}
