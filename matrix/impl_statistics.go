// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide row-wise statistical transforms (means, sample standard deviations,
//     z-scoring with degenerate-row removal, sum-to-one rescaling) as deterministic
//     compositions over the ew* micro-kernels.
//   - Keep tight loops centralized in ew* where it improves reuse and consistency.
//
// Exposed API:
//   - RowMeans(X)         -> means                 // Σ_j X[i,j] / c
//   - RowStds(X)          -> stds                  // sample std (n-1 denominator); constant rows are exactly 0
//   - ZScoreRows(X)       -> (Z, kept, means, stds) // drop std==0 rows, z-score the rest
//   - NormalizeRowsSum(X) -> (Y, sums, degenerate) // divide rows by their sum; sum==0 rows become NaN
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths operate on row-major flat buffers.
//   - Zero-size matrices (0×N or N×0) are treated as no-ops.

package matrix

import "math"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opRowMeans         = "RowMeans"
	opRowStds          = "RowStds"
	opZScoreRows       = "ZScoreRows"
	opNormalizeRowsSum = "NormalizeRowsSum"
)

// rowValues returns row i as a read-only slice (Dense) or a fresh copy (fallback).
func rowValues(X Matrix, i int, scratch []float64) ([]float64, error) {
	c := X.Cols()
	if d, ok := X.(*Dense); ok {
		return d.data[i*c : (i+1)*c], nil
	}
	var err error
	for j := 0; j < c; j++ {
		if scratch[j], err = X.At(i, j); err != nil {
			return nil, err
		}
	}

	return scratch, nil
}

// rowMeans computes the arithmetic mean of each row.
// Implementation:
//   - Stage 1: Validate X (non-nil); zero-size yields zero means.
//   - Stage 2: Accumulate per-row sums deterministically, divide by c.
//
// Complexity:
//   - Time O(r*c), Space O(r).
func rowMeans(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opRowMeans, err)
	}
	r, c := X.Rows(), X.Cols()
	means := make([]float64, r)
	if r == 0 || c == 0 {
		return means, nil
	}

	scratch := make([]float64, c)
	var s float64
	for i := 0; i < r; i++ {
		row, err := rowValues(X, i, scratch)
		if err != nil {
			return nil, matrixErrorf(opRowMeans, err)
		}
		s = 0
		for _, v := range row {
			s += v
		}
		means[i] = s / float64(c)
	}

	return means, nil
}

// rowStds computes sample standard deviations (n-1 denominator) per row.
// Implementation:
//   - Stage 1: Validate; compute means via rowMeans.
//   - Stage 2: For each row, short-circuit exactly constant rows to 0 so that
//     rounding in the mean can never fabricate a tiny positive spread.
//   - Stage 3: Two-pass sum of squared deviations / (c-1).
//
// Behavior highlights:
//   - c < 2: the sample std is undefined; reported as NaN for every row.
//
// Complexity:
//   - Time O(r*c), Space O(r).
func rowStds(X Matrix) ([]float64, []float64, error) {
	means, err := rowMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opRowStds, err)
	}
	r, c := X.Rows(), X.Cols()
	stds := make([]float64, r)
	if r == 0 {
		return stds, means, nil
	}
	if c < 2 {
		for i := range stds {
			stds[i] = math.NaN()
		}
		return stds, means, nil
	}

	scratch := make([]float64, c)
	var ss, dv float64
	for i := 0; i < r; i++ {
		row, err := rowValues(X, i, scratch)
		if err != nil {
			return nil, nil, matrixErrorf(opRowStds, err)
		}
		if isConstant(row) {
			stds[i] = 0
			continue
		}
		ss = 0
		for _, v := range row {
			dv = v - means[i]
			ss += dv * dv
		}
		stds[i] = math.Sqrt(ss / float64(c-1))
	}

	return stds, means, nil
}

// isConstant reports whether every element equals the first one.
func isConstant(row []float64) bool {
	for _, v := range row[1:] {
		if v != row[0] {
			return false
		}
	}
	return true
}

// zScoreRows standardizes each row and drops rows without spread.
// Implementation:
//   - Stage 1: rowStds (means + sample stds).
//   - Stage 2: keep rows with std > 0 (NaN compares false, so c<2 keeps nothing).
//   - Stage 3: Induced copy of kept rows; ewBroadcastSubRows; ewScaleRows by 1/std.
//
// Returns:
//   - *Dense: z-scored rows (len(kept)×c), possibly zero-area.
//   - []int: original indices of kept rows, ascending.
//   - []float64, []float64: means and stds for all original rows.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func zScoreRows(X Matrix) (*Dense, []int, []float64, []float64, error) {
	stds, means, err := rowStds(X)
	if err != nil {
		return nil, nil, nil, nil, matrixErrorf(opZScoreRows, err)
	}
	r, c := X.Rows(), X.Cols()

	kept := make([]int, 0, r)
	for i := 0; i < r; i++ {
		if stds[i] > 0 {
			kept = append(kept, i)
		}
	}

	// Materialize the kept rows as a Dense regardless of the input type.
	src, ok := X.(*Dense)
	if !ok {
		if src, err = toDense(X); err != nil {
			return nil, nil, nil, nil, matrixErrorf(opZScoreRows, err)
		}
	}
	cols := make([]int, c)
	for j := range cols {
		cols[j] = j
	}
	sub, err := src.Induced(kept, cols)
	if err != nil {
		return nil, nil, nil, nil, matrixErrorf(opZScoreRows, err)
	}

	keptMeans := make([]float64, len(kept))
	invStd := make([]float64, len(kept))
	for k, i := range kept {
		keptMeans[k] = means[i]
		invStd[k] = 1.0 / stds[i]
	}

	centered, err := ewBroadcastSubRows(sub, keptMeans)
	if err != nil {
		return nil, nil, nil, nil, matrixErrorf(opZScoreRows, err)
	}
	Z, err := ewScaleRows(centered, invStd)
	if err != nil {
		return nil, nil, nil, nil, matrixErrorf(opZScoreRows, err)
	}

	return Z, kept, means, stds, nil
}

// normalizeRowsSum divides each row by its (signed) sum.
// Implementation:
//   - Stage 1: Validate; compute row sums deterministically.
//   - Stage 2: scale = 1/sum; rows with sum == 0 are degenerate.
//   - Stage 3: ewScaleRows, then overwrite degenerate rows with NaN.
//
// Behavior highlights:
//   - Unlike an L1 normalization, a zero row is NOT left unchanged: it has no
//     defined proportions, so it is marked NaN and reported in `degenerate`.
//   - The result disables the finite-only policy so NaN rows are representable.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func normalizeRowsSum(X Matrix) (*Dense, []float64, []int, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, nil, matrixErrorf(opNormalizeRowsSum, err)
	}
	r, c := X.Rows(), X.Cols()
	sums := make([]float64, r)
	scale := make([]float64, r)
	var degenerate []int

	scratch := make([]float64, c)
	var s float64
	for i := 0; i < r; i++ {
		row, err := rowValues(X, i, scratch)
		if err != nil {
			return nil, nil, nil, matrixErrorf(opNormalizeRowsSum, err)
		}
		s = 0
		for _, v := range row {
			s += v
		}
		sums[i] = s
		if s == 0 {
			degenerate = append(degenerate, i)
			scale[i] = 0
			continue
		}
		scale[i] = 1.0 / s
	}

	Y, err := ewScaleRows(X, scale)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opNormalizeRowsSum, err)
	}
	Y.validateNaNInf = false
	nan := math.NaN()
	for _, i := range degenerate {
		for j := 0; j < c; j++ {
			Y.data[i*c+j] = nan
		}
	}

	return Y, sums, degenerate, nil
}

// toDense copies any Matrix into a *Dense (zero-area allowed).
func toDense(X Matrix) (*Dense, error) {
	r, c := X.Rows(), X.Cols()
	out := allocDense(r, c)
	var (
		v   float64
		err error
	)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}
