// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateLabel indicates a row or column label occurs more than once.
	ErrDuplicateLabel = errors.New("frame: duplicate label")

	// ErrDuplicateRow indicates a repeated row label. It matches
	// ErrDuplicateLabel under errors.Is.
	ErrDuplicateRow = fmt.Errorf("%w: row", ErrDuplicateLabel)

	// ErrUnknownLabel indicates a requested row label is not present.
	ErrUnknownLabel = errors.New("frame: unknown label")

	// ErrShape indicates label counts do not match the data dimensions.
	ErrShape = errors.New("frame: labels do not match data shape")

	// ErrParse indicates malformed delimited input.
	ErrParse = errors.New("frame: parse error")
)
