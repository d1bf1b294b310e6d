// Package nnls solves non-negative least squares problems
//
//	minimize ‖A·x − b‖₂  subject to  x ≥ 0
//
// with the Lawson–Hanson active-set method.
//
// The solver keeps a passive set P (coordinates free to be positive) and an
// active set Z (coordinates pinned at zero). Each outer step moves the Z
// coordinate with the largest positive gradient Aᵀ(b − A·x) into P and solves
// the unconstrained sub-problem on P's columns with a Householder least
// squares. If that solution leaves the feasible region, the inner loop steps
// back along the segment towards it and returns the coordinates that hit zero
// to Z.
//
// Usage:
//
//	p, err := nnls.NewProblem(A)
//	if err != nil { ... }
//	res, err := p.Solve(b, nnls.DefaultOptions())
//	fmt.Println(res.X, res.Residual, res.Converged)
//
// A Problem is read-only after construction and may be shared by goroutines;
// every Solve call owns its scratch buffers.
//
// Complexity: each step costs O(m·|P|²) for the sub-problem plus O(m·n) for
// the gradient.
package nnls
