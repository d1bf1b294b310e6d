// Package matrix offers the dense numeric core used by the deconvolution pipeline.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with error-returning accessors and a
//     finite-only numeric policy (NaN/Inf rejected unless disabled).
//   - Row statistics: means, sample standard deviations, z-scoring with removal
//     of zero-variance rows, sum-to-one rescaling with explicit degenerate rows.
//   - Element-wise helpers: scalar shift, global minimum, closeness checks.
//   - Linear algebra: Transpose, MatVec, Norm2, ResidualNorm and a Householder
//     LeastSquares solve used as the inner step of non-negative least squares.
//
// Zero-area matrices (0×N or N×0) are legal results of filtering and flow
// through every kernel as no-ops.
package matrix
