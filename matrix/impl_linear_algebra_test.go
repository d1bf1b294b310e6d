// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/deconv/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestTranspose_FastAndFallback(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	want := NewFilledDense(t, 3, 2, []float64{1, 4, 2, 5, 3, 6})

	Tf, err := matrix.Transpose(X)
	require.NoError(t, err)
	CompareClose(t, Tf, want, 0, 0)

	Ts, err := matrix.Transpose(hide{X})
	require.NoError(t, err)
	CompareClose(t, Ts, want, 0, 0)

	_, err = matrix.Transpose(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMatVec(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	x := []float64{1, 0, -1}

	y, err := matrix.MatVec(X, x)
	require.NoError(t, err)
	require.Equal(t, []float64{-2, -2}, y)

	ys, err := matrix.MatVec(hide{X}, x)
	require.NoError(t, err)
	require.Equal(t, y, ys)

	_, err = matrix.MatVec(X, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestNorm2AndResidual(t *testing.T) {
	t.Parallel()

	require.Equal(t, 5.0, matrix.Norm2([]float64{3, 4}))
	require.Equal(t, 0.0, matrix.Norm2(nil))
	require.InDelta(t, 5e200, matrix.Norm2([]float64{3e200, 4e200}), 1e188)

	A := NewFilledDense(t, 2, 2, []float64{1, 0, 0, 1})
	r, err := matrix.ResidualNorm(A, []float64{1, 1}, []float64{4, 5})
	require.NoError(t, err)
	require.InDelta(t, 5.0, r, epsTight)
}

func TestLeastSquares(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r, c int
		a    []float64
		b    []float64
		want []float64
	}{
		{"consistent tall", 3, 2, []float64{1, 0, 0, 1, 1, 1}, []float64{1, 2, 3}, []float64{1, 2}},
		{"mean of observations", 3, 1, []float64{1, 1, 1}, []float64{1, 2, 3}, []float64{2}},
		{"square", 2, 2, []float64{2, 0, 0, 4}, []float64{2, 2}, []float64{1, 0.5}},
		{"rank deficient basic solution", 2, 2, []float64{1, 1, 1, 1}, []float64{2, 2}, []float64{2, 0}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			A := NewFilledDense(t, tc.r, tc.c, tc.a)
			x, err := matrix.LeastSquares(A, tc.b)
			require.NoError(t, err)
			sliceClose(t, x, tc.want, 0, 1e-10)

			xs, err := matrix.LeastSquares(hide{A}, tc.b)
			require.NoError(t, err)
			sliceClose(t, xs, x, 0, 0)
		})
	}
}

func TestLeastSquares_Errors(t *testing.T) {
	t.Parallel()

	zero := MustDense(t, 3, 2)
	_, err := matrix.LeastSquares(zero, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrSingular)

	A := NewFilledDense(t, 2, 1, []float64{1, 1})
	_, err = matrix.LeastSquares(A, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.LeastSquares(nil, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestLeastSquares_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	A := NewFilledDense(t, 3, 2, []float64{1, 0, 0, 1, 1, 1})
	b := []float64{1, 2, 3}
	_, err := matrix.LeastSquares(A, b)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0, 1, 1, 1}, A.RawData())
	require.Equal(t, []float64{1, 2, 3}, b)
}

// TestLeastSquares_AgreesWithGonum cross-checks the Householder solve against
// gonum's QR-based least squares on random full-rank tall systems.
func TestLeastSquares_AgreesWithGonum(t *testing.T) {
	t.Parallel()

	const rows, cols = 12, 4
	for seed := int64(1); seed <= 3; seed++ {
		X := RandFilledDense(t, rows, cols, seed)
		b, err := X.Col(0)
		require.NoError(t, err)
		for i := range b {
			b[i] = b[i]*3 + float64(i%5) - 2
		}

		got, err := matrix.LeastSquares(X, b)
		require.NoError(t, err)

		var want mat.VecDense
		A := mat.NewDense(rows, cols, X.RawData())
		require.NoError(t, want.SolveVec(A, mat.NewVecDense(rows, append([]float64(nil), b...))))
		for j := 0; j < cols; j++ {
			require.InDelta(t, want.AtVec(j), got[j], 1e-9, "seed %d coef %d", seed, j)
		}
	}
}
