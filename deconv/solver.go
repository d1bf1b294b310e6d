// SPDX-License-Identifier: MIT

package deconv

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/deconv/frame"
	"github.com/katalvlaran/deconv/matrix"
	"github.com/katalvlaran/deconv/nnls"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	labelSep   = "_"
	nnlsInfix  = "NNLS_"
	residualID = "residual"
)

// Residual is the NNLS residual norm of one sample.
type Residual struct {
	Sample string
	Norm   float64
}

// SampleFit is the full per-sample outcome, kept at the sample's original
// column position.
type SampleFit struct {
	Index      int
	Sample     string
	Weights    []float64
	Residual   float64
	Iterations int
	Converged  bool
}

// CellTypeColumn renames a raw cell-type label "<p1>_<p2>" to
// "<p2>NNLS_<p1>", splitting on the first '_'.
// Errors: ErrCellTypeLabel when raw has no '_'.
func CellTypeColumn(raw string) (string, error) {
	p1, p2, ok := strings.Cut(raw, labelSep)
	if !ok {
		return "", fmt.Errorf("CellTypeColumn: %q: %w", raw, ErrCellTypeLabel)
	}

	return p2 + nnlsInfix + p1, nil
}

// CellTypeColumns renames every label in order. The mapping is injective:
// p1 never contains '_', so it is recoverable as the text after the last '_'.
func CellTypeColumns(raw []string) ([]string, error) {
	out := make([]string, len(raw))
	for j, r := range raw {
		name, err := CellTypeColumn(r)
		if err != nil {
			return nil, err
		}
		out[j] = name
	}

	return out, nil
}

// SolveSample fits one sample: argmin ‖profile·x − b‖₂ with x ≥ 0.
func SolveSample(profile *matrix.Dense, b []float64, opts nnls.Options) (nnls.Result, error) {
	return nnls.Solve(profile, b, opts)
}

// SolveAll fits every expression column against the profile.
//
// Implementation:
//   - Stage 1: check preconditions once (shapes, identical feature order,
//     finite values, renameable cell-type labels); prepare the shared problem.
//   - Stage 2: fan samples out over an errgroup bounded by WithWorkers. Each
//     goroutine writes only fits[i], so output order is the input column order
//     regardless of scheduling.
//   - Stage 3: assemble the samples × cell-types weight frame.
//
// Behavior highlights:
//   - A sample stopped by the iteration cap keeps its feasible weights and is
//     logged at Warn.
//   - Context cancellation stops scheduling and returns ctx.Err().
//
// Errors:
//   - ErrEmptyProfile, ErrInvalidOrder, ErrNonFinite, ErrCellTypeLabel.
func SolveAll(ctx context.Context, profile, expression *frame.Frame, opts ...Option) (*frame.Frame, []Residual, []SampleFit, error) {
	s := gatherOptions(opts...)

	features, cellTypes := profile.Shape()
	if features == 0 || cellTypes == 0 {
		return nil, nil, nil, fmt.Errorf("SolveAll: %d×%d profile: %w", features, cellTypes, ErrEmptyProfile)
	}
	if !frame.SameRows(profile, expression) {
		return nil, nil, nil, fmt.Errorf("SolveAll: profile and expression features differ: %w", ErrInvalidOrder)
	}
	if err := matrix.ValidateFinite(profile.View()); err != nil {
		return nil, nil, nil, fmt.Errorf("SolveAll: profile: %w: %w", ErrNonFinite, err)
	}
	if err := matrix.ValidateFinite(expression.View()); err != nil {
		return nil, nil, nil, fmt.Errorf("SolveAll: expression: %w: %w", ErrNonFinite, err)
	}
	columns, err := CellTypeColumns(profile.Cols())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("SolveAll: %w", err)
	}
	problem, err := nnls.NewProblem(profile.View())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("SolveAll: %w", err)
	}

	samples := expression.Cols()
	fits := make([]SampleFit, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, name := range samples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := expression.Column(i)
			if err != nil {
				return err
			}
			res, err := problem.Solve(b, s.solver)
			if err != nil {
				return fmt.Errorf("sample %q: %w", name, err)
			}
			if !res.Converged {
				s.logger.Warn("NNLS iteration cap reached",
					zap.String("sample", name),
					zap.Int("iterations", res.Iterations))
			}
			fits[i] = SampleFit{
				Index:      i,
				Sample:     name,
				Weights:    res.X,
				Residual:   res.Residual,
				Iterations: res.Iterations,
				Converged:  res.Converged,
			}
			s.metrics.observeFit(fits[i])

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, nil, nil, fmt.Errorf("SolveAll: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("SolveAll: %w", err)
	}

	data := make([]float64, 0, len(samples)*cellTypes)
	residuals := make([]Residual, len(samples))
	for i, f := range fits {
		data = append(data, f.Weights...)
		residuals[i] = Residual{Sample: f.Sample, Norm: f.Residual}
	}
	m, err := matrix.NewDenseFrom(len(samples), cellTypes, data)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("SolveAll: %w", err)
	}
	weights, err := frame.New(samples, columns, m)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("SolveAll: %w", err)
	}

	return weights.WithIndexName(frame.DefaultIndexName), residuals, fits, nil
}

// ResidualFrame lays residuals out as a one-column frame for persistence.
func ResidualFrame(residuals []Residual) (*frame.Frame, error) {
	rows := make([]string, len(residuals))
	vals := make([]float64, len(residuals))
	for i, r := range residuals {
		rows[i], vals[i] = r.Sample, r.Norm
	}
	m, err := matrix.NewDenseFrom(len(rows), 1, vals)
	if err != nil {
		return nil, fmt.Errorf("ResidualFrame: %w", err)
	}
	f, err := frame.New(rows, []string{residualID}, m)
	if err != nil {
		return nil, fmt.Errorf("ResidualFrame: %w", err)
	}

	return f.WithIndexName(frame.DefaultIndexName), nil
}

// ResidualsFromFrame is the inverse of ResidualFrame.
func ResidualsFromFrame(f *frame.Frame) ([]Residual, error) {
	if f.NumCols() != 1 {
		return nil, fmt.Errorf("ResidualsFromFrame: %d columns: %w", f.NumCols(), frame.ErrShape)
	}
	vals, err := f.Column(0)
	if err != nil {
		return nil, fmt.Errorf("ResidualsFromFrame: %w", err)
	}
	out := make([]Residual, len(vals))
	for i, l := range f.Rows() {
		out[i] = Residual{Sample: l, Norm: vals[i]}
	}

	return out, nil
}
