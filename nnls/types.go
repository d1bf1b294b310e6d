// SPDX-License-Identifier: MIT

package nnls

// DefaultTolerance is the relative optimality tolerance on the gradient.
const DefaultTolerance = 1e-10

// IterFactor multiplies the column count to give the default iteration cap.
const IterFactor = 3

// Options configures a Solve call.
//
// Fields:
//   - MaxIter:   cap on solver steps (outer and inner). 0 selects IterFactor·n.
//   - Tolerance: a coordinate in Z may enter P only while its gradient exceeds
//     Tolerance·max(1, ‖Aᵀb‖∞). Must be finite and ≥ 0.
//
// Reaching MaxIter is not an error: Solve returns the current feasible iterate
// with Converged=false.
type Options struct {
	MaxIter   int
	Tolerance float64
}

// DefaultOptions returns the options used when the caller has no preference.
func DefaultOptions() Options {
	return Options{MaxIter: 0, Tolerance: DefaultTolerance}
}

// Result is the outcome of one Solve call.
type Result struct {
	// X is the non-negative coefficient vector (len n).
	X []float64
	// Residual is ‖A·X − b‖₂.
	Residual float64
	// Iterations counts solver steps taken.
	Iterations int
	// Converged is false when the iteration cap stopped the solver.
	Converged bool
}
