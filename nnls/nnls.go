// SPDX-License-Identifier: MIT

package nnls

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/deconv/matrix"
)

var (
	// ErrDimensionMismatch indicates len(b) differs from the row count of A.
	ErrDimensionMismatch = errors.New("nnls: dimension mismatch")

	// ErrEmptyInput indicates A has no rows or no columns.
	ErrEmptyInput = errors.New("nnls: design matrix must be non-empty")

	// ErrBadOption indicates a negative MaxIter or an invalid Tolerance.
	ErrBadOption = errors.New("nnls: invalid option")
)

// Problem is a design matrix prepared for repeated solves.
type Problem struct {
	a    *matrix.Dense
	at   *matrix.Dense // Aᵀ, hoisted for gradients
	rows []int         // 0..m-1, reused by every column subset
}

// NewProblem copies A and precomputes its transpose.
// Errors: matrix.ErrNilMatrix, ErrEmptyInput, matrix.ErrNaNInf.
func NewProblem(A matrix.Matrix) (*Problem, error) {
	if err := matrix.ValidateNotNil(A); err != nil {
		return nil, fmt.Errorf("NewProblem: %w", err)
	}
	m, n := A.Rows(), A.Cols()
	if m == 0 || n == 0 {
		return nil, fmt.Errorf("NewProblem: %d×%d: %w", m, n, ErrEmptyInput)
	}
	if err := matrix.ValidateFinite(A); err != nil {
		return nil, fmt.Errorf("NewProblem: %w", err)
	}
	at, err := matrix.Transpose(A)
	if err != nil {
		return nil, fmt.Errorf("NewProblem: %w", err)
	}
	a, err := matrix.Transpose(at)
	if err != nil {
		return nil, fmt.Errorf("NewProblem: %w", err)
	}
	rows := make([]int, m)
	for i := range rows {
		rows[i] = i
	}

	return &Problem{a: a, at: at, rows: rows}, nil
}

// Rows returns m.
func (p *Problem) Rows() int { return p.a.Rows() }

// Cols returns n.
func (p *Problem) Cols() int { return p.a.Cols() }

// Solve computes argmin ‖A·x − b‖₂ subject to x ≥ 0 for one right-hand side.
//
// Implementation:
//   - Stage 1: validate b and options; x = 0, P = ∅, w = Aᵀb.
//   - Stage 2 (outer): while some j ∈ Z has w[j] > tol, move the largest to P.
//   - Stage 3 (inner): s = LeastSquares(A[:,P], b). If s > 0 on P accept it;
//     otherwise step x ← x + α(s − x) with the largest α keeping x ≥ 0 and
//     return the coordinates that reached zero to Z, then re-solve.
//   - Stage 4: recompute w = Aᵀ(b − A·x) and repeat.
//
// Behavior highlights:
//   - Every iterate is feasible, so a capped run still returns a usable x.
//   - Deterministic: ties in the entering gradient resolve to the lowest index.
//   - b == 0 converges immediately to x = 0.
//
// Errors:
//   - ErrDimensionMismatch, ErrBadOption, matrix.ErrNaNInf (non-finite b).
//
// Complexity:
//   - Time O(k·m·n²) for k steps, Space O(m·n).
func (p *Problem) Solve(b []float64, opts Options) (Result, error) {
	m, n := p.a.Rows(), p.a.Cols()
	if len(b) != m {
		return Result{}, fmt.Errorf("Solve: len(b)=%d, rows=%d: %w", len(b), m, ErrDimensionMismatch)
	}
	if err := matrix.ValidateFiniteVec(b); err != nil {
		return Result{}, fmt.Errorf("Solve: %w", err)
	}
	if opts.MaxIter < 0 || opts.Tolerance < 0 || math.IsNaN(opts.Tolerance) || math.IsInf(opts.Tolerance, 0) {
		return Result{}, fmt.Errorf("Solve: MaxIter=%d Tolerance=%g: %w", opts.MaxIter, opts.Tolerance, ErrBadOption)
	}
	maxIter := opts.MaxIter
	if maxIter == 0 {
		maxIter = IterFactor * n
	}

	x := make([]float64, n)
	passive := make([]bool, n)
	w, err := p.gradient(x, b)
	if err != nil {
		return Result{}, fmt.Errorf("Solve: %w", err)
	}
	tol := opts.Tolerance * math.Max(1, maxAbs(w))

	iter := 0
	converged := true
	for {
		t := enteringIndex(w, passive, tol)
		if t < 0 {
			break
		}
		if iter >= maxIter {
			converged = false
			break
		}
		iter++
		passive[t] = true

		cols := passiveCols(passive)
		s, err := p.subproblem(cols, b)
		if err != nil {
			return Result{}, fmt.Errorf("Solve: %w", err)
		}
		if s[indexOf(cols, t)] <= 0 {
			// Numerically dependent column: reject t until the gradient changes.
			passive[t] = false
			w[t] = 0
			continue
		}

		for !allPositive(s) {
			if iter >= maxIter {
				converged = false
				break
			}
			iter++

			// Largest step towards s that keeps every passive coordinate ≥ 0.
			alpha, hit := math.Inf(1), -1
			for k, j := range cols {
				if s[k] > 0 {
					continue
				}
				a := 0.0
				if d := x[j] - s[k]; d > 0 {
					a = x[j] / d
				}
				if a < alpha {
					alpha, hit = a, j
				}
			}
			for k, j := range cols {
				x[j] += alpha * (s[k] - x[j])
			}
			x[hit] = 0
			for _, j := range cols {
				if x[j] <= 0 {
					x[j] = 0
					passive[j] = false
				}
			}

			cols = passiveCols(passive)
			if len(cols) == 0 {
				s = nil
				break
			}
			if s, err = p.subproblem(cols, b); err != nil {
				return Result{}, fmt.Errorf("Solve: %w", err)
			}
		}
		if !converged {
			break
		}
		clear(x)
		for k, j := range cols {
			x[j] = s[k]
		}

		if w, err = p.gradient(x, b); err != nil {
			return Result{}, fmt.Errorf("Solve: %w", err)
		}
	}

	res, err := matrix.ResidualNorm(p.a, x, b)
	if err != nil {
		return Result{}, fmt.Errorf("Solve: %w", err)
	}

	return Result{X: x, Residual: res, Iterations: iter, Converged: converged}, nil
}

// Solve is a one-shot convenience over NewProblem(A).Solve(b, opts).
func Solve(A matrix.Matrix, b []float64, opts Options) (Result, error) {
	p, err := NewProblem(A)
	if err != nil {
		return Result{}, err
	}

	return p.Solve(b, opts)
}

// gradient returns Aᵀ(b − A·x).
func (p *Problem) gradient(x, b []float64) ([]float64, error) {
	ax, err := matrix.MatVec(p.a, x)
	if err != nil {
		return nil, err
	}
	for i := range ax {
		ax[i] = b[i] - ax[i]
	}

	return matrix.MatVec(p.at, ax)
}

// subproblem solves the unconstrained least squares on the given columns.
func (p *Problem) subproblem(cols []int, b []float64) ([]float64, error) {
	sub, err := p.a.Induced(p.rows, cols)
	if err != nil {
		return nil, err
	}
	s, err := matrix.LeastSquares(sub, b)
	if errors.Is(err, matrix.ErrSingular) {
		// All passive columns are zero: no positive coefficient can help.
		return make([]float64, len(cols)), nil
	}

	return s, err
}

// enteringIndex returns the Z coordinate with the largest gradient above tol,
// or -1 when the KKT conditions hold.
func enteringIndex(w []float64, passive []bool, tol float64) int {
	best, at := tol, -1
	for j, v := range w {
		if !passive[j] && v > best {
			best, at = v, j
		}
	}

	return at
}

func allPositive(s []float64) bool {
	for _, v := range s {
		if v <= 0 {
			return false
		}
	}

	return true
}

func indexOf(cols []int, j int) int {
	for k, c := range cols {
		if c == j {
			return k
		}
	}

	return -1
}

func passiveCols(passive []bool) []int {
	cols := make([]int, 0, len(passive))
	for j, in := range passive {
		if in {
			cols = append(cols, j)
		}
	}

	return cols
}

func maxAbs(v []float64) float64 {
	out := 0.0
	for _, x := range v {
		out = math.Max(out, math.Abs(x))
	}

	return out
}
