// SPDX-License-Identifier: MIT

package deconv_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/katalvlaran/deconv/frame"
	"github.com/katalvlaran/deconv/matrix"
	"github.com/stretchr/testify/require"
)

func mustFrame(t *testing.T, rows, cols []string, vals []float64) *frame.Frame {
	t.Helper()
	m, err := matrix.NewDenseFrom(len(rows), len(cols), vals, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	f, err := frame.New(rows, cols, m)
	require.NoError(t, err)

	return f
}

// blockProfile has f1,f2 high in CT_A and f3 high in CT_B.
func blockProfile(t *testing.T) *frame.Frame {
	return mustFrame(t,
		[]string{"f1", "f2", "f3"},
		[]string{"CT_A", "CT_B"},
		[]float64{
			9, 1,
			8, 2,
			1, 7,
		})
}

func labels(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + strconv.Itoa(i)
	}

	return out
}

// randomProblem returns a features×types non-negative profile and a
// features×samples expression built as profile·w plus noise.
func randomProblem(t *testing.T, features, types, samples int, seed int64) (*frame.Frame, *frame.Frame) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	p := make([]float64, features*types)
	for k := range p {
		p[k] = rng.Float64() * 10
	}
	e := make([]float64, features*samples)
	for s := 0; s < samples; s++ {
		w := make([]float64, types)
		for j := range w {
			w[j] = rng.Float64()
		}
		for i := 0; i < features; i++ {
			v := rng.NormFloat64() * 0.1
			for j := 0; j < types; j++ {
				v += p[i*types+j] * w[j]
			}
			e[i*samples+s] = v
		}
	}
	ct := make([]string, types)
	for j := range ct {
		ct[j] = "CT_" + strconv.Itoa(j)
	}
	rows := labels("g", features)

	return mustFrame(t, rows, ct, p), mustFrame(t, rows, labels("s", samples), e)
}
