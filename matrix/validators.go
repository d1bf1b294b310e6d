// SPDX-License-Identifier: MIT

// Shared argument checks. Each failure wraps a package sentinel with the
// validator's name; kernels add their own operation tag on top.

package matrix

import (
	"fmt"
	"math"
)

func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil rejects a nil Matrix, including a typed nil *Dense.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape compares dimensions; a and b must be non-nil.
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape",
			fmt.Errorf("%dx%d vs %dx%d: %w", a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch))
	}

	return nil
}

// ValidateBinarySameShape checks both operands for nil, then their shapes.
func ValidateBinarySameShape(a, b Matrix) error {
	for _, m := range []Matrix{a, b} {
		if err := ValidateNotNil(m); err != nil {
			return validatorErrorf("ValidateBinarySameShape", err)
		}
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateVecLen requires len(x) == n; a nil x is only accepted for n == 0.
func ValidateVecLen(x []float64, n int) error {
	if x == nil && n > 0 {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", fmt.Errorf("len %d, want %d: %w", len(x), n, ErrDimensionMismatch))
	}

	return nil
}

// ValidateFinite scans m once and reports the first NaN or ±Inf with its
// coordinates. Meant for ingestion boundaries, not inner loops.
func ValidateFinite(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateFinite", err)
	}
	if d, ok := m.(*Dense); ok {
		for k, v := range d.data {
			if isNonFinite(v) {
				return validatorErrorf("ValidateFinite", denseErrorf(opAt, k/d.c, k%d.c, ErrNaNInf))
			}
		}
		return nil
	}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return validatorErrorf("ValidateFinite", err)
			}
			if isNonFinite(v) {
				return validatorErrorf("ValidateFinite", denseErrorf(opAt, i, j, ErrNaNInf))
			}
		}
	}

	return nil
}

// ValidateFiniteVec reports the first non-finite entry of x.
func ValidateFiniteVec(x []float64) error {
	for i, v := range x {
		if isNonFinite(v) {
			return validatorErrorf("ValidateFiniteVec", fmt.Errorf("index %d: %w", i, ErrNaNInf))
		}
	}

	return nil
}

func isNonFinite(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
