// Package deconv estimates cell-type proportions of bulk expression samples
// by non-negative least squares against a cell-type signature profile.
//
// The computation is a chain of pure steps over immutable frames:
//
//	Normalize        z-score profile rows, drop zero-variance features
//	ShiftNonnegative lift a matrix by |min| when it has negative entries
//	AlignFeatures    restrict both matrices to their sorted shared features
//	SolveAll         one NNLS fit per sample, optionally in parallel
//	SumToOne         rescale weights to proportions, flag all-zero samples
//	Summarize        residual statistics
//
// Deconvolve runs the whole chain. Persistence and the cache gate live in
// the pipeline package.
package deconv
