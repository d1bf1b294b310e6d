// SPDX-License-Identifier: MIT

package frame

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/deconv/matrix"
)

const (
	// Delimiter separates cells on every line.
	Delimiter = '\t'

	gzipSuffix = ".gz"
	naRep      = ""
)

var gzipMagic = []byte{0x1f, 0x8b}

// Read decodes a delimited table, transparently decompressing gzip input.
// The first header cell names the index column; every following line starts
// with its row label. A header with one cell fewer than the data lines is
// read as column labels only, under an unnamed index. Values are parsed as float64; empty cells, "NaN" and
// "nan" decode to NaN. The resulting matrix carries no finite-only policy:
// validation belongs to whoever consumes the numbers.
//
// Errors: ErrParse (ragged rows, bad numbers, missing header),
// ErrDuplicateRow, ErrDuplicateLabel.
func Read(r io.Reader) (*Frame, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if head, err := br.Peek(len(gzipMagic)); err == nil && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("Read: gzip: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	cr := csv.NewReader(src)
	cr.Comma = Delimiter
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	rec, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("Read: missing header: %w", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("Read: header: %v: %w", err, ErrParse)
	}
	header := cloneLabels(rec)
	index, cols := header[0], header[1:]
	width := len(header)

	var (
		rows []string
		data []float64
		line = 1
	)
	for {
		rec, err = cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("Read: line %d: %v: %w", line, err, ErrParse)
		}
		// A header one cell short of the data names no index column.
		if line == 2 && len(rec) == width+1 {
			index, cols = "", header
			width++
		}
		if len(rec) != width {
			return nil, fmt.Errorf("Read: line %d: %d cells, want %d: %w", line, len(rec), width, ErrParse)
		}
		rows = append(rows, rec[0])
		for j, cell := range rec[1:] {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("Read: line %d column %q: %w", line, cols[j], err)
			}
			data = append(data, v)
		}
	}

	m, err := matrix.NewDenseFrom(len(rows), len(cols), data, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("Read: %w", err)
	}
	f, err := newOwned(rows, cols, m)
	if err != nil {
		return nil, fmt.Errorf("Read: %w", err)
	}
	f.index = index

	return f, nil
}

func parseCell(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	switch s {
	case naRep, "NaN", "nan", "NA":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", cell, ErrParse)
	}

	return v, nil
}

// ReadFile opens path and decodes it with Read.
func ReadFile(path string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %w", err)
	}
	defer fh.Close()

	f, err := Read(fh)
	if err != nil {
		return nil, fmt.Errorf("ReadFile %s: %w", path, err)
	}

	return f, nil
}

// Write encodes f as an uncompressed delimited table with header and index
// column. NaN is written as an empty cell.
func Write(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter

	rec := make([]string, 0, len(f.cols)+1)
	rec = append(rec, f.index)
	rec = append(rec, f.cols...)
	if err := cw.Write(rec); err != nil {
		return fmt.Errorf("Write: %w", err)
	}

	var v float64
	var err error
	for i, label := range f.rows {
		rec = rec[:0]
		rec = append(rec, label)
		for j := range f.cols {
			if v, err = f.data.At(i, j); err != nil {
				return fmt.Errorf("Write: %w", err)
			}
			rec = append(rec, formatCell(v))
		}
		if err = cw.Write(rec); err != nil {
			return fmt.Errorf("Write: %w", err)
		}
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return fmt.Errorf("Write: %w", err)
	}

	return nil
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return naRep
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteGzip encodes f like Write into a gzip stream.
func WriteGzip(w io.Writer, f *Frame) error {
	zw := gzip.NewWriter(w)
	if err := Write(zw, f); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("WriteGzip: %w", err)
	}

	return nil
}

// WriteFile writes f to path, gzip-compressed when path ends in ".gz".
func WriteFile(path string, f *Frame) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("WriteFile: %w", cerr)
		}
	}()

	if strings.HasSuffix(path, gzipSuffix) {
		return WriteGzip(fh, f)
	}

	return Write(fh, f)
}
