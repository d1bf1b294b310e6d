// SPDX-License-Identifier: MIT

package deconv

import (
	"fmt"
	"math"

	"github.com/katalvlaran/deconv/frame"
	"github.com/katalvlaran/deconv/matrix"
)

// Diagnostics summarizes the fit quality of a run. Informational only.
type Diagnostics struct {
	Samples      int     `yaml:"samples"`
	MeanResidual float64 `yaml:"mean_residual"`
	MinResidual  float64 `yaml:"min_residual"`
	MaxResidual  float64 `yaml:"max_residual"`
	Degenerate   int     `yaml:"degenerate"`
	NotConverged int     `yaml:"not_converged"`
}

// SumToOne divides every weight row by its sum. A row summing to exactly
// zero cannot be rescaled: it is filled with NaN and its sample label is
// returned in degenerate, in row order.
func SumToOne(weights *frame.Frame) (*frame.Frame, []string, error) {
	y, _, idx, err := matrix.NormalizeRowsSum(weights.View())
	if err != nil {
		return nil, nil, fmt.Errorf("SumToOne: %w", err)
	}
	out, err := weights.WithData(y)
	if err != nil {
		return nil, nil, fmt.Errorf("SumToOne: %w", err)
	}

	var degenerate []string
	if len(idx) > 0 {
		labels := weights.Rows()
		degenerate = make([]string, len(idx))
		for k, i := range idx {
			degenerate[k] = labels[i]
		}
	}

	return out, degenerate, nil
}

// Summarize reduces residuals to mean, min and max and counts degenerate
// samples. With no samples every statistic is 0.
func Summarize(residuals []Residual, degenerate []string) Diagnostics {
	d := Diagnostics{Samples: len(residuals), Degenerate: len(degenerate)}
	if len(residuals) == 0 {
		return d
	}

	d.MinResidual, d.MaxResidual = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, r := range residuals {
		sum += r.Norm
		d.MinResidual = math.Min(d.MinResidual, r.Norm)
		d.MaxResidual = math.Max(d.MaxResidual, r.Norm)
	}
	d.MeanResidual = sum / float64(len(residuals))

	return d
}
