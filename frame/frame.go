// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/deconv/matrix"
)

// DefaultIndexName is the index column header used for aligned frames.
const DefaultIndexName = "-"

// Frame is an immutable labeled table.
type Frame struct {
	index string
	rows  []string
	cols  []string
	rowAt map[string]int
	data  *matrix.Dense
}

// New builds a Frame over data. Labels are copied; data is cloned so later
// writes by the caller cannot leak in.
// Errors: ErrShape, ErrDuplicateRow, ErrDuplicateLabel, matrix.ErrNilMatrix.
func New(rows, cols []string, data *matrix.Dense) (*Frame, error) {
	if err := matrix.ValidateNotNil(data); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	return newOwned(cloneLabels(rows), cloneLabels(cols), data.Clone().(*matrix.Dense))
}

// newOwned takes ownership of its arguments without copying.
func newOwned(rows, cols []string, data *matrix.Dense) (*Frame, error) {
	if data.Rows() != len(rows) || data.Cols() != len(cols) {
		return nil, fmt.Errorf("New: %d×%d labels for %d×%d data: %w",
			len(rows), len(cols), data.Rows(), data.Cols(), ErrShape)
	}
	rowAt, err := indexLabels(rows, ErrDuplicateRow)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	if _, err = indexLabels(cols, ErrDuplicateLabel); err != nil {
		return nil, fmt.Errorf("New: column %w", err)
	}

	return &Frame{rows: rows, cols: cols, rowAt: rowAt, data: data}, nil
}

func indexLabels(labels []string, dupErr error) (map[string]int, error) {
	at := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := at[l]; dup {
			return nil, fmt.Errorf("%q: %w", l, dupErr)
		}
		at[l] = i
	}

	return at, nil
}

func cloneLabels(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)

	return out
}

// NumRows returns the number of row labels.
func (f *Frame) NumRows() int { return len(f.rows) }

// NumCols returns the number of column labels.
func (f *Frame) NumCols() int { return len(f.cols) }

// Shape returns (rows, cols).
func (f *Frame) Shape() (rows, cols int) { return len(f.rows), len(f.cols) }

// Rows returns a copy of the row labels in order.
func (f *Frame) Rows() []string { return cloneLabels(f.rows) }

// Cols returns a copy of the column labels in order.
func (f *Frame) Cols() []string { return cloneLabels(f.cols) }

// IndexName returns the header of the index column.
func (f *Frame) IndexName() string { return f.index }

// WithIndexName returns a Frame sharing data and labels under a new index name.
func (f *Frame) WithIndexName(name string) *Frame {
	g := *f
	g.index = name

	return &g
}

// Data returns a copy of the backing matrix.
func (f *Frame) Data() *matrix.Dense { return f.data.Clone().(*matrix.Dense) }

// View returns the backing matrix itself. Callers must treat it as read-only.
func (f *Frame) View() matrix.Matrix { return f.data }

// At returns the value at (i, j).
func (f *Frame) At(i, j int) (float64, error) { return f.data.At(i, j) }

// RowIndex reports the position of a row label.
func (f *Frame) RowIndex(label string) (int, bool) {
	i, ok := f.rowAt[label]

	return i, ok
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) ([]float64, error) { return f.data.Row(i) }

// Column returns a copy of column j.
func (f *Frame) Column(j int) ([]float64, error) { return f.data.Col(j) }

// SelectRows returns the rows named by labels, in that order.
// Errors: ErrUnknownLabel, ErrDuplicateLabel.
func (f *Frame) SelectRows(labels []string) (*Frame, error) {
	idx := make([]int, len(labels))
	for k, l := range labels {
		i, ok := f.rowAt[l]
		if !ok {
			return nil, fmt.Errorf("SelectRows: %q: %w", l, ErrUnknownLabel)
		}
		idx[k] = i
	}
	all := make([]int, len(f.cols))
	for j := range all {
		all[j] = j
	}
	sub, err := f.data.Induced(idx, all)
	if err != nil {
		return nil, fmt.Errorf("SelectRows: %w", err)
	}
	g, err := newOwned(cloneLabels(labels), cloneLabels(f.cols), sub)
	if err != nil {
		return nil, fmt.Errorf("SelectRows: %w", err)
	}
	g.index = f.index

	return g, nil
}

// WithData returns a Frame with the same labels over new data.
// Errors: ErrShape, matrix.ErrNilMatrix.
func (f *Frame) WithData(data *matrix.Dense) (*Frame, error) {
	g, err := New(f.rows, f.cols, data)
	if err != nil {
		return nil, fmt.Errorf("WithData: %w", err)
	}
	g.index = f.index

	return g, nil
}

// WithCols returns a Frame with the same rows and data under new column labels.
// Errors: ErrShape, ErrDuplicateLabel.
func (f *Frame) WithCols(cols []string) (*Frame, error) {
	g, err := newOwned(f.rows, cloneLabels(cols), f.data)
	if err != nil {
		return nil, fmt.Errorf("WithCols: %w", err)
	}
	g.index = f.index

	return g, nil
}

// IntersectRows returns the row labels present in both frames, sorted
// ascending.
func IntersectRows(a, b *Frame) []string {
	out := make([]string, 0, min(len(a.rows), len(b.rows)))
	for _, l := range a.rows {
		if _, ok := b.rowAt[l]; ok {
			out = append(out, l)
		}
	}
	sort.Strings(out)

	return out
}

// SameRows reports whether both frames carry identical row label sequences.
func SameRows(a, b *Frame) bool {
	if len(a.rows) != len(b.rows) {
		return false
	}
	for i := range a.rows {
		if a.rows[i] != b.rows[i] {
			return false
		}
	}

	return true
}
