// SPDX-License-Identifier: MIT
// Exported entry points over the unexported row kernels. Validation happens
// in the kernels; these only forward.

package matrix

// RowMeans returns the arithmetic mean of every row (len = Rows()).
// Complexity: O(r*c).
func RowMeans(X Matrix) ([]float64, error) { return rowMeans(X) }

// RowStds returns per-row sample standard deviations (n-1 denominator).
// Rows whose values are all identical report exactly 0; with fewer than two
// columns every row reports NaN.
// Complexity: O(r*c).
func RowStds(X Matrix) ([]float64, error) {
	stds, _, err := rowStds(X)
	return stds, err
}

// ZScoreRows replaces each row by (v − mean)/std and drops rows whose std is
// not strictly positive. kept lists the surviving original row indices in
// ascending order.
// Complexity: O(r*c).
// Callers use kept to carry row labels along.
func ZScoreRows(X Matrix) (Z *Dense, kept []int, err error) {
	Z, kept, _, _, err = zScoreRows(X)
	return Z, kept, err
}

// NormalizeRowsSum divides each row by its sum. Rows summing to exactly zero
// are filled with NaN and their indices returned in degenerate.
// Complexity: O(r*c).
func NormalizeRowsSum(X Matrix) (Y *Dense, sums []float64, degenerate []int, err error) {
	return normalizeRowsSum(X)
}

// ScaleRows returns out[i,j] = X[i,j]*scale[i].
// Complexity: O(r*c).
func ScaleRows(X Matrix, scale []float64) (*Dense, error) { return ewScaleRows(X, scale) }

// AddScalar returns X + alpha element-wise.
// Complexity: O(r*c).
func AddScalar(X Matrix, alpha float64) (*Dense, error) { return ewAddScalar(X, alpha) }

// Min returns the smallest element; ok is false for zero-area input.
// Complexity: O(r*c).
func Min(X Matrix) (minimum float64, ok bool, err error) { return ewMin(X) }

// AllClose reports element-wise |a-b| ≤ atol + rtol*|b| for same-shape inputs.
// Complexity: O(r*c).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) { return ewAllClose(a, b, rtol, atol) }
