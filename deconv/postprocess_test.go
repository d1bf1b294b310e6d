// SPDX-License-Identifier: MIT

package deconv_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/deconv/deconv"
	"github.com/stretchr/testify/require"
)

func TestSumToOne(t *testing.T) {
	t.Parallel()

	w := mustFrame(t,
		[]string{"s1", "s2", "s3"},
		[]string{"ANNLS_CT", "BNNLS_CT"},
		[]float64{
			1, 3,
			0, 0,
			0.2, 0,
		})

	props, degenerate, err := deconv.SumToOne(w)
	require.NoError(t, err)
	require.Equal(t, []string{"s2"}, degenerate)
	require.Equal(t, w.Rows(), props.Rows())
	require.Equal(t, w.Cols(), props.Cols())

	for _, i := range []int{0, 2} {
		row, err := props.Row(i)
		require.NoError(t, err)
		sum := 0.0
		for _, v := range row {
			require.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		require.InDelta(t, 1.0, sum, 1e-9)
	}
	row, err := props.Row(1)
	require.NoError(t, err)
	for _, v := range row {
		require.True(t, math.IsNaN(v))
	}

	none, degenerate, err := deconv.SumToOne(mustFrame(t, []string{"s"}, []string{"x"}, []float64{4}))
	require.NoError(t, err)
	require.Nil(t, degenerate)
	v, err := none.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	d := deconv.Summarize([]deconv.Residual{
		{Sample: "a", Norm: 1},
		{Sample: "b", Norm: 3},
		{Sample: "c", Norm: 2},
	}, []string{"b"})
	require.Equal(t, deconv.Diagnostics{
		Samples:      3,
		MeanResidual: 2,
		MinResidual:  1,
		MaxResidual:  3,
		Degenerate:   1,
	}, d)

	require.Equal(t, deconv.Diagnostics{}, deconv.Summarize(nil, nil))
}
