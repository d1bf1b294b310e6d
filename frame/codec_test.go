// SPDX-License-Identifier: MIT

package frame_test

import (
	"bytes"
	"compress/gzip"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/deconv/frame"
	"github.com/katalvlaran/deconv/matrix"
	"github.com/stretchr/testify/require"
)

const sampleTable = "-\tCT_a\tCT_b\n" +
	"g1\t1\t0\n" +
	"g2\t0.5\t-2.25\n" +
	"g3\t\t3e-3\n"

func TestReadPlain(t *testing.T) {
	t.Parallel()

	f, err := frame.Read(strings.NewReader(sampleTable))
	require.NoError(t, err)

	require.Equal(t, "-", f.IndexName())
	if diff := cmp.Diff([]string{"g1", "g2", "g3"}, f.Rows()); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"CT_a", "CT_b"}, f.Cols())

	v, err := f.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, -2.25, v)

	v, err = f.At(2, 0)
	require.NoError(t, err)
	require.True(t, math.IsNaN(v))

	require.ErrorIs(t, matrix.ValidateFinite(f.View()), matrix.ErrNaNInf)
}

func TestReadUnnamedIndex(t *testing.T) {
	t.Parallel()

	f, err := frame.Read(strings.NewReader("CT_a\tCT_b\ng1\t1\t2\ng2\t3\t4\n"))
	require.NoError(t, err)
	require.Equal(t, "", f.IndexName())
	require.Equal(t, []string{"g1", "g2"}, f.Rows())
	require.Equal(t, []string{"CT_a", "CT_b"}, f.Cols())
	v, err := f.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)
}

func TestReadGzipDetected(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sampleTable))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	f, err := frame.Read(&buf)
	require.NoError(t, err)
	r, c := f.Shape()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"ragged", "-\ta\tb\ng1\t1\n"},
		{"ragged after first line", "-\ta\ng1\t1\ng2\t1\t2\n"},
		{"short header only on later line", "-\ta\ng1\t1\ng2\t1\t2\t3\n"},
		{"bad number", "-\ta\ng1\tabc\n"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := frame.Read(strings.NewReader(tc.in))
			require.ErrorIs(t, err, frame.ErrParse)
		})
	}

	_, err := frame.Read(strings.NewReader("-\ta\ng1\t1\ng1\t2\n"))
	require.ErrorIs(t, err, frame.ErrDuplicateLabel)
	require.ErrorIs(t, err, frame.ErrDuplicateRow)

	_, err = frame.Read(strings.NewReader("-\ta\ta\ng1\t1\t2\n"))
	require.ErrorIs(t, err, frame.ErrDuplicateLabel)
	require.NotErrorIs(t, err, frame.ErrDuplicateRow)
}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDenseFrom(2, 2, []float64{0.1, math.NaN(), 1e-300, 42}, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	f, err := frame.New([]string{"s1", "s2"}, []string{"aNNLS_x", "bNNLS_y"}, m)
	require.NoError(t, err)
	f = f.WithIndexName("-")

	var buf bytes.Buffer
	require.NoError(t, frame.Write(&buf, f))
	require.Equal(t, "-\taNNLS_x\tbNNLS_y\ns1\t0.1\t\ns2\t1e-300\t42\n", buf.String())

	dir := t.TempDir()
	for _, name := range []string{"table.txt", "table.txt.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(t, frame.WriteFile(path, f))
		g, err := frame.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, f.Rows(), g.Rows())
		require.Equal(t, f.Cols(), g.Cols())
		ok, err := matrix.AllClose(f.View(), g.View(), 0, 0)
		require.NoError(t, err)
		require.False(t, ok, "NaN cells never compare close")
		v, err := g.At(1, 0)
		require.NoError(t, err)
		require.Equal(t, 1e-300, v)
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := frame.ReadFile(filepath.Join(t.TempDir(), "absent.txt.gz"))
	require.Error(t, err)
}
