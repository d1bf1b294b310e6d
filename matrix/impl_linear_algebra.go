// SPDX-License-Identifier: MIT
// Linear-algebra kernels for the solver: transpose, matrix-vector product,
// a scaled Euclidean norm and a Householder least-squares solve.

package matrix

import (
	"fmt"
	"math"
)

const (
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opLstsq     = "LeastSquares"
	opResidual  = "ResidualNorm"
)

// matrixErrorf tags err with the failing operation. err must be non-nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// atErr reports a failed element read inside op.
func atErr(op string, i, j int, err error) error {
	return matrixErrorf(op, fmt.Errorf("At(%d,%d): %w", i, j, err))
}

// Transpose returns mᵀ as a new matrix. Zero-area inputs are allowed.
// Complexity: O(r·c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	r, c := m.Rows(), m.Cols()
	out := allocDense(c, r)

	src, fast := m.(*Dense)
	if fast {
		out.validateNaNInf = src.validateNaNInf
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if fast {
				out.data[j*r+i] = src.data[i*c+j]
				continue
			}
			v, err := m.At(i, j)
			if err != nil {
				return nil, atErr(opTranspose, i, j, err)
			}
			out.data[j*r+i] = v
		}
	}

	return out, nil
}

// MatVec returns m·x. len(x) must equal m.Cols().
// Zero entries of x are skipped; NNLS iterates are mostly zero.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	r, c := m.Rows(), m.Cols()
	y := make([]float64, r)

	if d, ok := m.(*Dense); ok {
		for i := 0; i < r; i++ {
			row := d.data[i*c : (i+1)*c]
			var acc float64
			for j, xj := range x {
				if xj != 0 {
					acc += row[j] * xj
				}
			}
			y[i] = acc
		}
		return y, nil
	}

	for i := 0; i < r; i++ {
		var acc float64
		for j, xj := range x {
			v, err := m.At(i, j)
			if err != nil {
				return nil, atErr(opMatVec, i, j, err)
			}
			acc += v * xj
		}
		y[i] = acc
	}

	return y, nil
}

// Norm2 returns ‖x‖₂ using the dnrm2 scaling recurrence, so very large or
// very small entries neither overflow nor underflow.
func Norm2(x []float64) float64 {
	scale, ssq := 0.0, 1.0
	for _, v := range x {
		if v == 0 {
			continue
		}
		a := math.Abs(v)
		if a > scale {
			q := scale / a
			ssq = 1 + ssq*q*q
			scale = a
		} else {
			q := a / scale
			ssq += q * q
		}
	}

	return scale * math.Sqrt(ssq)
}

// ResidualNorm returns ‖m·x − b‖₂.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func ResidualNorm(m Matrix, x, b []float64) (float64, error) {
	ax, err := MatVec(m, x)
	if err != nil {
		return 0, matrixErrorf(opResidual, err)
	}
	if err = ValidateVecLen(b, len(ax)); err != nil {
		return 0, matrixErrorf(opResidual, err)
	}
	for i := range ax {
		ax[i] = b[i] - ax[i]
	}

	return Norm2(ax), nil
}

// LeastSquares solves min ‖A·x − b‖₂ by Householder QR without pivoting.
// Q is never formed: each reflector is applied to the trailing columns of a
// working copy of A and to a copy of b, then the leading triangle of R is
// back-substituted. A pivot with |R[k,k]| ≤ eps·max|R[i,i]| is treated as
// zero and its coefficient set to 0, which gives a basic solution for
// rank-deficient designs. Columns beyond the row count also get 0.
// A and b are not modified. WithEpsilon overrides the pivot tolerance.
//
// Errors: ErrNilMatrix, ErrInvalidDimensions, ErrDimensionMismatch, and
// ErrSingular when no pivot survives.
//
// Complexity: O(m·n²) time, O(m·n) space.
func LeastSquares(A Matrix, b []float64, opts ...Option) ([]float64, error) {
	if err := ValidateNotNil(A); err != nil {
		return nil, matrixErrorf(opLstsq, err)
	}
	m, n := A.Rows(), A.Cols()
	if m == 0 || n == 0 {
		return nil, matrixErrorf(opLstsq, ErrInvalidDimensions)
	}
	if err := ValidateVecLen(b, m); err != nil {
		return nil, matrixErrorf(opLstsq, err)
	}
	o := gatherOptions(opts...)

	// Working copies: R starts as A, y starts as b.
	var R *Dense
	if d, ok := A.(*Dense); ok {
		R = d.cloneDense()
	} else {
		var err error
		if R, err = toDense(A); err != nil {
			return nil, matrixErrorf(opLstsq, err)
		}
	}
	y := make([]float64, m)
	copy(y, b)

	p := min(m, n)
	v := make([]float64, m) // Householder vector, reused per step
	var (
		i, j, k    int
		norm, beta float64
		alpha, tau float64
		sum, aij   float64
	)
	for k = 0; k < p; k++ {
		// Norm of A[k:m][k].
		norm = 0
		for i = k; i < m; i++ {
			aij = R.data[i*n+k]
			norm += aij * aij
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue // zero column: leave as is, pivot stays 0
		}

		// alpha = -sign(A[k,k]) * norm keeps v[k] away from cancellation.
		alpha = -math.Copysign(norm, R.data[k*n+k])
		for i = k; i < m; i++ {
			v[i] = R.data[i*n+k]
		}
		v[k] -= alpha

		beta = 0
		for i = k; i < m; i++ {
			beta += v[i] * v[i]
		}
		if beta == 0 {
			continue
		}
		tau = 2.0 / beta

		// Apply reflection to the trailing columns of R.
		for j = k; j < n; j++ {
			sum = 0
			for i = k; i < m; i++ {
				sum += v[i] * R.data[i*n+j]
			}
			for i = k; i < m; i++ {
				R.data[i*n+j] -= tau * v[i] * sum
			}
		}
		// Apply the same reflection to the right-hand side.
		sum = 0
		for i = k; i < m; i++ {
			sum += v[i] * y[i]
		}
		for i = k; i < m; i++ {
			y[i] -= tau * v[i] * sum
		}
	}

	// Relative pivot threshold.
	maxDiag := 0.0
	for k = 0; k < p; k++ {
		maxDiag = math.Max(maxDiag, math.Abs(R.data[k*n+k]))
	}
	if maxDiag == 0 {
		return nil, matrixErrorf(opLstsq, ErrSingular)
	}
	tol := o.eps * maxDiag

	// Back substitution on the leading p×p triangle.
	x := make([]float64, n)
	var rkk float64
	for k = p - 1; k >= 0; k-- {
		rkk = R.data[k*n+k]
		if math.Abs(rkk) <= tol {
			x[k] = 0
			continue
		}
		sum = y[k]
		for j = k + 1; j < p; j++ {
			sum -= R.data[k*n+j] * x[j]
		}
		x[k] = sum / rkk
	}

	return x, nil
}
