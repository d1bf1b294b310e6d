// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/deconv/matrix"
	"github.com/stretchr/testify/require"
)

func TestAddScalar_FastEqualsFallback(t *testing.T) {
	t.Parallel()

	X := RandFilledDense(t, 4, 3, 42)
	F, err := matrix.AddScalar(X, 1.5)
	require.NoError(t, err)
	S, err := matrix.AddScalar(hide{X}, 1.5)
	require.NoError(t, err)
	CompareClose(t, F, S, 0, 0)
	require.InDelta(t, MustAt(t, X, 2, 1)+1.5, MustAt(t, F, 2, 1), epsTight)

	// Zero-area passes through.
	empty, err := matrix.NewDenseFrom(0, 3, nil)
	require.NoError(t, err)
	E, err := matrix.AddScalar(empty, 1)
	require.NoError(t, err)
	require.Equal(t, 0, E.Rows())
}

func TestScaleRows(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	Y, err := matrix.ScaleRows(X, []float64{2, 0.5})
	require.NoError(t, err)
	CompareClose(t, Y, NewFilledDense(t, 2, 2, []float64{2, 4, 1.5, 2}), 0, 0)

	_, err = matrix.ScaleRows(X, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestMin(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 2, 3, []float64{3, -2.5, 7, 0, 1, -1})
	lo, ok, err := matrix.Min(X)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, -2.5, lo)

	loS, okS, err := matrix.Min(hide{X})
	require.NoError(t, err)
	require.True(t, okS)
	require.Equal(t, lo, loS)

	empty, err := matrix.NewDenseFrom(2, 0, nil)
	require.NoError(t, err)
	_, ok, err = matrix.Min(empty)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAllClose(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 1, 2, []float64{1, 2})
	b := NewFilledDense(t, 1, 2, []float64{1 + 1e-13, 2})

	ok, err := matrix.AllClose(a, b, 0, 1e-12)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = matrix.AllClose(a, b, 0, 0)
	require.NoError(t, err)
	require.False(t, ok)

	nan, err := matrix.NewDenseFrom(1, 2, []float64{math.NaN(), 2}, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	ok, err = matrix.AllClose(nan, nan, 1, 1)
	require.NoError(t, err)
	require.False(t, ok, "NaN never compares close")

	_, err = matrix.AllClose(a, MustDense(t, 2, 1), 0, 0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
