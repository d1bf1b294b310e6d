// SPDX-License-Identifier: MIT

// Dense: row-major float64 storage with error-returning accessors.
//
// Layout: element (i, j) lives at data[i*c+j]. Shapes with zero rows or zero
// columns are legal; they are what filtering produces when nothing survives.
//
// Numeric policy: by default NaN and ±Inf are rejected on ingestion and Set.
// WithNoValidateNaNInf lifts the rule for tables that carry NaN on purpose
// (undefined proportions, missing cells in an input file).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

const (
	opAt      = "At"
	opSet     = "Set"
	opFrom    = "From"
	opInduced = "Induced"
	opCol     = "Col"
)

func denseErrorf(op string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", op, row, col, err)
}

// Dense is a concrete row-major matrix.
type Dense struct {
	r, c           int
	data           []float64 // len == r*c
	validateNaNInf bool
}

var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense returns a zeroed rows×cols matrix. Both dimensions must be
// positive; use NewDenseFrom for zero-area shapes.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return allocDense(rows, cols), nil
}

func allocDense(rows, cols int) *Dense {
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols), validateNaNInf: DefaultValidateNaNInf}
}

// NewDenseFrom copies a row-major slice into a new rows×cols matrix.
//
// Zero-area shapes are accepted. Errors: ErrInvalidDimensions for negative
// dimensions, ErrDimensionMismatch when len(data) != rows*cols, ErrNaNInf
// (with coordinates) for a non-finite value while validation is on.
func NewDenseFrom(rows, cols int, data []float64, opts ...Option) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != rows*cols {
		return nil, denseErrorf(opFrom, rows, cols, ErrDimensionMismatch)
	}
	m := allocDense(rows, cols)
	m.validateNaNInf = gatherOptions(opts...).validateNaNInf
	if m.validateNaNInf {
		for k, v := range data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, denseErrorf(opFrom, k/cols, k%cols, ErrNaNInf)
			}
		}
	}
	copy(m.data, data)

	return m, nil
}

// Rows returns the row count.
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count.
func (m *Dense) Cols() int { return m.c }

// Shape returns (Rows, Cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

func (m *Dense) offset(row, col int) (int, bool) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, false
	}

	return row*m.c + col, true
}

// At returns element (row, col) or a wrapped ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	off, ok := m.offset(row, col)
	if !ok {
		return 0, denseErrorf(opAt, row, col, ErrOutOfRange)
	}

	return m.data[off], nil
}

// Set writes v at (row, col). Errors: ErrOutOfRange; ErrNaNInf when v is
// not finite and the matrix validates.
func (m *Dense) Set(row, col int, v float64) error {
	off, ok := m.offset(row, col)
	if !ok {
		return denseErrorf(opSet, row, col, ErrOutOfRange)
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(opSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy carrying the same numeric policy.
func (m *Dense) Clone() Matrix { return m.cloneDense() }

func (m *Dense) cloneDense() *Dense {
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data)), validateNaNInf: m.validateNaNInf}
	copy(out.data, m.data)

	return out
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, denseErrorf(opAt, i, 0, ErrOutOfRange)
	}

	return append([]float64(nil), m.data[i*m.c:(i+1)*m.c]...), nil
}

// Col returns a copy of column j.
func (m *Dense) Col(j int) ([]float64, error) {
	if j < 0 || j >= m.c {
		return nil, denseErrorf(opCol, 0, j, ErrOutOfRange)
	}
	out := make([]float64, m.r)
	for i := range out {
		out[i] = m.data[i*m.c+j]
	}

	return out, nil
}

// RawData returns a copy of the row-major buffer.
func (m *Dense) RawData() []float64 {
	return append([]float64(nil), m.data...)
}

// String renders one bracketed line per row, for test failures and debugging.
func (m *Dense) String() string {
	var b strings.Builder
	for i := 0; i < m.r; i++ {
		b.WriteByte('[')
		for j := 0; j < m.c; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", m.data[i*m.c+j])
		}
		b.WriteString("]\n")
	}

	return b.String()
}

// Induced copies the submatrix selected by rowsIdx × colsIdx, in the order
// given. Repeated indices are allowed; an empty list yields a zero-area
// matrix. The numeric policy is inherited.
//
// Complexity: O(len(rowsIdx)·len(colsIdx)).
func (m *Dense) Induced(rowsIdx, colsIdx []int) (*Dense, error) {
	for _, j := range colsIdx {
		if j < 0 || j >= m.c {
			return nil, fmt.Errorf("Dense.%s: col index %d: %w", opInduced, j, ErrOutOfRange)
		}
	}
	out := allocDense(len(rowsIdx), len(colsIdx))
	out.validateNaNInf = m.validateNaNInf
	for oi, i := range rowsIdx {
		if i < 0 || i >= m.r {
			return nil, fmt.Errorf("Dense.%s: row index %d: %w", opInduced, i, ErrOutOfRange)
		}
		src := m.data[i*m.c : (i+1)*m.c]
		dst := out.data[oi*out.c : (oi+1)*out.c]
		for oj, j := range colsIdx {
			dst[oj] = src[j]
		}
	}

	return out, nil
}
