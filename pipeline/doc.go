// SPDX-License-Identifier: MIT

// Package pipeline wraps deconvolution as a cached pipeline step.
//
// A Step reads the profile and expression tables (or takes them from the
// caller), runs deconv.Deconvolve and persists three artifacts to a
// store.Store under fixed keys: the sum-to-one proportions table, the
// per-sample residual series and a YAML run summary. When the proportions
// table already exists and the run is not forced, the stored artifacts are
// loaded instead of recomputed.
//
// Artifacts are written only after every one of them has been encoded; the
// proportions table, which gates the cache, is written last.
package pipeline
