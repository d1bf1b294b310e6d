// SPDX-License-Identifier: MIT

package deconv

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "deconv"

// Metrics holds the run and per-sample collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	Runs         prometheus.Counter
	Samples      prometheus.Counter
	Degenerate   prometheus.Counter
	NotConverged prometheus.Counter
	Iterations   prometheus.Histogram
	Residual     prometheus.Histogram
	Duration     prometheus.Histogram
}

// NewMetrics builds the collectors and registers them with reg when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Completed deconvolution runs.",
		}),
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "samples_total",
			Help:      "Samples solved.",
		}),
		Degenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "degenerate_samples_total",
			Help:      "Samples whose weights summed to zero.",
		}),
		NotConverged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "not_converged_samples_total",
			Help:      "Samples stopped by the NNLS iteration cap.",
		}),
		Iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "nnls_iterations",
			Help:      "NNLS steps per sample.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Residual: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "residual_norm",
			Help:      "NNLS residual norm per sample.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 12),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of Deconvolve.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.Runs, m.Samples, m.Degenerate, m.NotConverged, m.Iterations, m.Residual, m.Duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observeFit(f SampleFit) {
	if m == nil {
		return
	}
	m.Samples.Inc()
	m.Iterations.Observe(float64(f.Iterations))
	m.Residual.Observe(f.Residual)
	if !f.Converged {
		m.NotConverged.Inc()
	}
}

func (m *Metrics) observeRun(d Diagnostics, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Runs.Inc()
	m.Degenerate.Add(float64(d.Degenerate))
	m.Duration.Observe(elapsed.Seconds())
}
