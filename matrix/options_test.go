// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/deconv/matrix"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	o := matrix.NewMatrixOptions()
	require.Equal(t, matrix.DefaultEpsilon, o.Epsilon())
	require.Equal(t, matrix.DefaultValidateNaNInf, o.ValidateNaNInf())

	o = matrix.NewMatrixOptions(matrix.WithEpsilon(1e-6), matrix.WithNoValidateNaNInf(), nil)
	require.Equal(t, 1e-6, o.Epsilon())
	require.False(t, o.ValidateNaNInf())

	// last writer wins
	o = matrix.NewMatrixOptions(matrix.WithNoValidateNaNInf(), matrix.WithValidateNaNInf())
	require.True(t, o.ValidateNaNInf())
}

func TestWithEpsilonPanicsOnInvalid(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { matrix.WithEpsilon(-1) })
	require.Panics(t, func() { matrix.WithEpsilon(math.NaN()) })
	require.NotPanics(t, func() { matrix.WithEpsilon(0) })
}
