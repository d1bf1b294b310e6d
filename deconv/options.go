// SPDX-License-Identifier: MIT

package deconv

import (
	"github.com/katalvlaran/deconv/nnls"
	"go.uber.org/zap"
)

// DefaultWorkers keeps solves sequential unless asked otherwise.
const DefaultWorkers = 1

// Option configures SolveAll and Deconvolve.
type Option func(*settings)

type settings struct {
	workers int
	solver  nnls.Options
	logger  *zap.Logger
	metrics *Metrics
}

// WithWorkers bounds the number of concurrent per-sample solves. n ≤ 1 runs
// sequentially.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithSolverOptions overrides the NNLS iteration cap and tolerance.
func WithSolverOptions(o nnls.Options) Option {
	return func(s *settings) { s.solver = o }
}

// WithLogger routes progress and warnings to l. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records solver statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

func gatherOptions(opts ...Option) settings {
	s := settings{
		workers: DefaultWorkers,
		solver:  nnls.DefaultOptions(),
		logger:  zap.NewNop(),
	}
	for _, set := range opts {
		if set != nil {
			set(&s)
		}
	}
	if s.workers < 1 {
		s.workers = 1
	}

	return s
}
