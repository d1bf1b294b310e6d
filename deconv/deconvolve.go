// SPDX-License-Identifier: MIT

package deconv

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/deconv/frame"
	"go.uber.org/zap"
)

// Report records what preprocessing did to the inputs.
type Report struct {
	Normalize       NormalizeReport `yaml:"normalize"`
	ProfileShift    float64         `yaml:"profile_shift"`
	ExpressionShift float64         `yaml:"expression_shift"`
	Features        int             `yaml:"features"`
	CellTypes       int             `yaml:"cell_types"`
	Samples         int             `yaml:"samples"`
}

// Result is the output of Deconvolve.
type Result struct {
	// Weights are the raw NNLS coefficients, samples × renamed cell types.
	Weights *frame.Frame
	// Proportions are Weights rescaled to sum to one per sample; degenerate
	// rows are NaN.
	Proportions *frame.Frame
	Residuals   []Residual
	Fits        []SampleFit
	Degenerate  []string
	Diagnostics Diagnostics
	Report      Report
}

// Deconvolve runs Normalize → ShiftNonnegative (profile, then expression) →
// AlignFeatures → SolveAll → SumToOne → Summarize. Inputs are not modified.
func Deconvolve(ctx context.Context, profile, expression *frame.Frame, opts ...Option) (*Result, error) {
	s := gatherOptions(opts...)
	log := s.logger
	start := time.Now()

	pr, pc := profile.Shape()
	er, ec := expression.Shape()
	log.Info("Starting deconvolution",
		zap.Ints("profile_shape", []int{pr, pc}),
		zap.Ints("expression_shape", []int{er, ec}),
		zap.Int("workers", s.workers))
	if pr == 0 || pc == 0 {
		return nil, fmt.Errorf("Deconvolve: %d×%d profile: %w", pr, pc, ErrEmptyProfile)
	}

	norm, nrep, err := Normalize(profile)
	if err != nil {
		return nil, fmt.Errorf("Deconvolve: %w", err)
	}
	if len(nrep.Dropped) > 0 {
		log.Warn("Dropped zero-variance profile features",
			zap.Int("count", len(nrep.Dropped)),
			zap.Strings("features", nrep.Dropped))
	}
	if nrep.Kept == 0 {
		return nil, fmt.Errorf("Deconvolve: no profile feature has positive variance: %w", ErrEmptyProfile)
	}

	p, pShift, err := ShiftNonnegative(norm)
	if err != nil {
		return nil, fmt.Errorf("Deconvolve: profile: %w", err)
	}
	if pShift > 0 {
		log.Warn("Shifted profile to be non-negative", zap.Float64("shift", pShift))
	}
	e, eShift, err := ShiftNonnegative(expression)
	if err != nil {
		return nil, fmt.Errorf("Deconvolve: expression: %w", err)
	}
	if eShift > 0 {
		log.Warn("Shifted expression to be non-negative", zap.Float64("shift", eShift))
	}

	if p, e, err = AlignFeatures(p, e); err != nil {
		return nil, fmt.Errorf("Deconvolve: %w", err)
	}
	features, cellTypes := p.Shape()
	log.Info("Aligned features",
		zap.Ints("profile_shape", []int{features, cellTypes}),
		zap.Ints("expression_shape", []int{e.NumRows(), e.NumCols()}))

	weights, residuals, fits, err := SolveAll(ctx, p, e, opts...)
	if err != nil {
		return nil, fmt.Errorf("Deconvolve: %w", err)
	}
	if means, err := columnMeans(weights); err == nil {
		log.Debug("Estimated weights", zap.Any("mean_per_cell_type", means))
	}

	props, degenerate, err := SumToOne(weights)
	if err != nil {
		return nil, fmt.Errorf("Deconvolve: %w", err)
	}
	if len(degenerate) > 0 {
		log.Warn("Degenerate samples: weights sum to zero, proportions undefined",
			zap.Strings("samples", degenerate))
	}

	diag := Summarize(residuals, degenerate)
	for _, f := range fits {
		if !f.Converged {
			diag.NotConverged++
		}
	}
	log.Info("Average residual",
		zap.Float64("mean", diag.MeanResidual),
		zap.Float64("min", diag.MinResidual),
		zap.Float64("max", diag.MaxResidual),
		zap.Int("samples", diag.Samples))
	s.metrics.observeRun(diag, time.Since(start))

	return &Result{
		Weights:     weights,
		Proportions: props,
		Residuals:   residuals,
		Fits:        fits,
		Degenerate:  degenerate,
		Diagnostics: diag,
		Report: Report{
			Normalize:       nrep,
			ProfileShift:    pShift,
			ExpressionShift: eShift,
			Features:        features,
			CellTypes:       cellTypes,
			Samples:         e.NumCols(),
		},
	}, nil
}

// columnMeans maps each column label to its mean over rows.
func columnMeans(f *frame.Frame) (map[string]float64, error) {
	out := make(map[string]float64, f.NumCols())
	rows := f.NumRows()
	if rows == 0 {
		return out, nil
	}
	for j, name := range f.Cols() {
		col, err := f.Column(j)
		if err != nil {
			return nil, err
		}
		sum := 0.0
		for _, v := range col {
			sum += v
		}
		out[name] = sum / float64(rows)
	}

	return out, nil
}
