// SPDX-License-Identifier: MIT

package matrix

// Matrix is the read side every kernel accepts. *Dense is the only
// implementation in this module; kernels take a flat-slice fast path for it
// and fall back to At for anything else.
type Matrix interface {
	// Rows and Cols report the shape. Either may be zero.
	Rows() int
	Cols() int

	// At returns element (i, j), or ErrOutOfRange.
	At(i, j int) (float64, error)

	// Clone returns an independent deep copy.
	Clone() Matrix
}
