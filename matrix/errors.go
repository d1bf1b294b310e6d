// SPDX-License-Identifier: MIT

// Sentinel errors. Kernels never panic on bad input; they return one of
// these, wrapped with an operation tag, and callers match with errors.Is.
// When several checks fail the first reported is, in order: nil, shape or
// index, NaN/Inf, dimension mismatch, singular system.

package matrix

import "errors"

var (
	// ErrOutOfRange reports a row or column index outside the matrix.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch reports operands whose sizes do not fit together.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf reports a non-finite value where the numeric policy requires finite ones.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix reports a nil matrix or vector argument.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrSingular reports a least-squares design with no usable pivot.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrInvalidDimensions reports a negative (or, for NewDense, zero) dimension.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")
)

// ErrIndexOutOfBounds is an alias of ErrOutOfRange.
//
// Deprecated: use ErrOutOfRange.
var ErrIndexOutOfBounds = ErrOutOfRange
