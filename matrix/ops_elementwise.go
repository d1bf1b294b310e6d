// SPDX-License-Identifier: MIT

// Element-wise micro-kernels (ew*). Unexported; api.go and the statistics
// kernels wrap them. Each walks the flat buffer when handed a *Dense and
// reads through At otherwise; both paths visit elements in row-major order
// and produce identical results.

package matrix

import "math"

// ewMapRows returns out[i,j] = f(i, X[i,j]). The output inherits the numeric
// policy of a *Dense input.
func ewMapRows(op string, X Matrix, f func(i int, v float64) float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(op, err)
	}
	r, c := X.Rows(), X.Cols()
	out := allocDense(r, c)

	if d, ok := X.(*Dense); ok {
		out.validateNaNInf = d.validateNaNInf
		for i := 0; i < r; i++ {
			row := d.data[i*c : (i+1)*c]
			dst := out.data[i*c : (i+1)*c]
			for j, v := range row {
				dst[j] = f(i, v)
			}
		}
		return out, nil
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, err := X.At(i, j)
			if err != nil {
				return nil, matrixErrorf(op, err)
			}
			out.data[i*c+j] = f(i, v)
		}
	}

	return out, nil
}

// ewBroadcastSubRows: out[i,j] = X[i,j] − means[i].
func ewBroadcastSubRows(X Matrix, means []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf("broadcastSubRows", err)
	}
	if len(means) != X.Rows() {
		return nil, matrixErrorf("broadcastSubRows", ErrDimensionMismatch)
	}

	return ewMapRows("broadcastSubRows", X, func(i int, v float64) float64 { return v - means[i] })
}

// ewScaleRows: out[i,j] = X[i,j] · scale[i].
func ewScaleRows(X Matrix, scale []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf("scaleRows", err)
	}
	if len(scale) != X.Rows() {
		return nil, matrixErrorf("scaleRows", ErrDimensionMismatch)
	}

	return ewMapRows("scaleRows", X, func(i int, v float64) float64 { return v * scale[i] })
}

// ewAddScalar: out[i,j] = X[i,j] + alpha.
func ewAddScalar(X Matrix, alpha float64) (*Dense, error) {
	return ewMapRows("addScalar", X, func(_ int, v float64) float64 { return v + alpha })
}

// ewMin returns the smallest element; ok is false for a zero-area input.
// NaN never wins a comparison and is therefore skipped.
func ewMin(X Matrix) (lo float64, ok bool, err error) {
	if err = ValidateNotNil(X); err != nil {
		return 0, false, matrixErrorf("min", err)
	}
	r, c := X.Rows(), X.Cols()
	if r == 0 || c == 0 {
		return 0, false, nil
	}

	lo = math.Inf(1)
	if d, isDense := X.(*Dense); isDense {
		for _, v := range d.data {
			lo = minSkipNaN(lo, v)
		}
		return lo, true, nil
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, e := X.At(i, j)
			if e != nil {
				return 0, false, matrixErrorf("min", e)
			}
			lo = minSkipNaN(lo, v)
		}
	}

	return lo, true, nil
}

func minSkipNaN(lo, v float64) float64 {
	if v < lo {
		return v
	}

	return lo
}

// ewAllClose reports |a−b| ≤ atol + rtol·|b| for every element pair.
// Shapes must match; NaN is never close to anything.
func ewAllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf("allClose", err)
	}

	ad, okA := a.(*Dense)
	bd, okB := b.(*Dense)
	if okA && okB {
		for k, av := range ad.data {
			if !closeEnough(av, bd.data[k], rtol, atol) {
				return false, nil
			}
		}
		return true, nil
	}

	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			av, err := a.At(i, j)
			if err != nil {
				return false, matrixErrorf("allClose", err)
			}
			bv, err := b.At(i, j)
			if err != nil {
				return false, matrixErrorf("allClose", err)
			}
			if !closeEnough(av, bv, rtol, atol) {
				return false, nil
			}
		}
	}

	return true, nil
}

func closeEnough(x, y, rtol, atol float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}

	return math.Abs(x-y) <= atol+rtol*math.Abs(y)
}
