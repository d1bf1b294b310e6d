// SPDX-License-Identifier: MIT
// Shared fixtures for the matrix tests. All generated data is finite.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/deconv/matrix"
)

// hide strips the concrete type so kernels take their At-based fallback;
// tests compare hide{X} results against the *Dense fast path.
type hide struct{ matrix.Matrix }

// MustDense allocates a zeroed r×c matrix or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// NewFilledDense builds an r×c *Dense from row-major vals or fails the test.
func NewFilledDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	if err != nil {
		t.Fatalf("NewDenseFrom(%d,%d): %v", r, c, err)
	}

	return m
}

// RandFilledDense returns an r×c Dense filled with uniform values in [-1,1)
// from a fixed seed.
func RandFilledDense(t *testing.T, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	vals := make([]float64, r*c)
	for k := range vals {
		vals[k] = rng.Float64()*2 - 1
	}

	return NewFilledDense(t, r, c, vals)
}

// MustAt reads (i,j) or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	if err != nil {
		t.Fatalf("At(%d,%d): %v", i, j, err)
	}

	return v
}

// CompareClose asserts a and b are element-wise close.
func CompareClose(t *testing.T, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(a, b, rtol, atol)
	if err != nil {
		t.Fatalf("AllClose: %v", err)
	}
	if !ok {
		t.Fatalf("matrices differ:\n%v\nvs\n%v", a, b)
	}
}

// sliceClose asserts element-wise closeness of two vectors.
func sliceClose(t *testing.T, a, b []float64, rtol, atol float64) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > atol+rtol*math.Abs(b[i]) {
			t.Fatalf("index %d: got %g want %g", i, a[i], b[i])
		}
	}
}
