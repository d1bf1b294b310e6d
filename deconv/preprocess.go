// SPDX-License-Identifier: MIT

package deconv

import (
	"fmt"

	"github.com/katalvlaran/deconv/frame"
	"github.com/katalvlaran/deconv/matrix"
)

// NormalizeReport lists what Normalize removed.
type NormalizeReport struct {
	// Dropped holds feature labels with zero (or undefined) sample variance,
	// in input order.
	Dropped []string `yaml:"dropped,omitempty"`
	// Kept is the number of surviving features.
	Kept int `yaml:"kept"`
}

// Normalize z-scores every profile row with the sample standard deviation
// and drops rows whose deviation is not strictly positive. Row and column
// order of the survivors is preserved.
// Errors: ErrNonFinite.
func Normalize(profile *frame.Frame) (*frame.Frame, NormalizeReport, error) {
	if err := matrix.ValidateFinite(profile.View()); err != nil {
		return nil, NormalizeReport{}, fmt.Errorf("Normalize: profile: %w: %w", ErrNonFinite, err)
	}
	z, kept, err := matrix.ZScoreRows(profile.View())
	if err != nil {
		return nil, NormalizeReport{}, fmt.Errorf("Normalize: %w", err)
	}

	labels := profile.Rows()
	keptLabels := make([]string, len(kept))
	keep := make(map[int]bool, len(kept))
	for k, i := range kept {
		keptLabels[k] = labels[i]
		keep[i] = true
	}
	var dropped []string
	for i, l := range labels {
		if !keep[i] {
			dropped = append(dropped, l)
		}
	}

	out, err := frame.New(keptLabels, profile.Cols(), z)
	if err != nil {
		return nil, NormalizeReport{}, fmt.Errorf("Normalize: %w", err)
	}

	return out.WithIndexName(profile.IndexName()), NormalizeReport{Dropped: dropped, Kept: len(kept)}, nil
}

// ShiftNonnegative adds |min| to every entry when the global minimum is
// negative and returns the applied shift. A non-negative (or empty) input is
// returned unchanged with shift 0, so the step is idempotent.
// Errors: ErrNonFinite.
func ShiftNonnegative(m *frame.Frame) (*frame.Frame, float64, error) {
	if err := matrix.ValidateFinite(m.View()); err != nil {
		return nil, 0, fmt.Errorf("ShiftNonnegative: %w: %w", ErrNonFinite, err)
	}
	lo, ok, err := matrix.Min(m.View())
	if err != nil {
		return nil, 0, fmt.Errorf("ShiftNonnegative: %w", err)
	}
	if !ok || lo >= 0 {
		return m, 0, nil
	}

	shift := -lo
	lifted, err := matrix.AddScalar(m.View(), shift)
	if err != nil {
		return nil, 0, fmt.Errorf("ShiftNonnegative: %w", err)
	}
	out, err := m.WithData(lifted)
	if err != nil {
		return nil, 0, fmt.Errorf("ShiftNonnegative: %w", err)
	}

	return out, shift, nil
}

// AlignFeatures restricts both frames to the sorted intersection of their
// row labels and renames both index columns to frame.DefaultIndexName.
// Errors: ErrInvalidOrder (wrapping ErrNoOverlap when nothing is shared).
func AlignFeatures(profile, expression *frame.Frame) (p, e *frame.Frame, err error) {
	overlap := frame.IntersectRows(profile, expression)
	if len(overlap) == 0 {
		return nil, nil, fmt.Errorf("AlignFeatures: %w: %w", ErrInvalidOrder, ErrNoOverlap)
	}
	if p, err = profile.SelectRows(overlap); err != nil {
		return nil, nil, fmt.Errorf("AlignFeatures: profile: %w", err)
	}
	if e, err = expression.SelectRows(overlap); err != nil {
		return nil, nil, fmt.Errorf("AlignFeatures: expression: %w", err)
	}
	p = p.WithIndexName(frame.DefaultIndexName)
	e = e.WithIndexName(frame.DefaultIndexName)

	if !frame.SameRows(p, e) {
		return nil, nil, fmt.Errorf("AlignFeatures: %w", ErrInvalidOrder)
	}

	return p, e, nil
}
