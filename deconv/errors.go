// SPDX-License-Identifier: MIT

package deconv

import "errors"

var (
	// ErrInvalidOrder indicates the aligned feature sequences differ, which
	// would pair profile rows with the wrong expression rows. Inputs with a
	// repeated feature label are rejected by the frame layer first; the
	// pipeline reports that frame.ErrDuplicateRow wrapped in ErrInvalidOrder.
	ErrInvalidOrder = errors.New("deconv: invalid order")

	// ErrNoOverlap indicates profile and expression share no feature label.
	ErrNoOverlap = errors.New("deconv: no shared features")

	// ErrNonFinite indicates a NaN or ±Inf input value.
	ErrNonFinite = errors.New("deconv: non-finite value")

	// ErrCellTypeLabel indicates a cell-type label that cannot be renamed
	// (no '_' separator) or whose renamed form collides with another.
	ErrCellTypeLabel = errors.New("deconv: malformed cell-type label")

	// ErrEmptyProfile indicates no usable feature or cell type remains.
	ErrEmptyProfile = errors.New("deconv: empty profile")
)
