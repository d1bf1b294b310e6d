// Package deconv is the module root of a bulk-expression deconvolution
// toolkit: given a reference profile (features × cell types) and an
// expression table (features × samples) it estimates, per sample, the
// non-negative mixture of cell types that best explains the sample.
//
// What is inside?
//
//	matrix/    dense row-major float64 matrix, row statistics, Householder least squares
//	frame/     labeled matrices plus the tab-delimited (optionally gzip) table codec
//	nnls/      Lawson–Hanson non-negative least squares
//	deconv/    preprocess → per-sample solve → sum-to-one, with logging and metrics
//	pipeline/  cached step persisting results to a store
//	store/     artifact stores: memory, local filesystem (fs/), S3 / MinIO (s3/)
//	config/    viper-backed configuration (file, DECONV_* env, flags)
//	logging/   zap logger construction
//	cmd/deconv the command-line entry point
//
// Data flow:
//
//	profile ──► z-score rows ──► shift ≥ 0 ─┐
//	                                        ├─► align features ──► NNLS per sample ──► sum-to-one
//	expression ─────────────────► shift ≥ 0 ┘                          │
//	                                                                   └─► residual ‖Ax−b‖₂
//
// Quick start:
//
//	res, err := deconv.Deconvolve(ctx, profile, expression, deconv.WithWorkers(8))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Proportions.Rows(), res.Diagnostics.MeanResidual)
//
// See the individual package docs for invariants and error contracts.
package deconv
