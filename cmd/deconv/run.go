// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/deconv/config"
	"github.com/katalvlaran/deconv/deconv"
	"github.com/katalvlaran/deconv/pipeline"
	"github.com/katalvlaran/deconv/store"
	"github.com/katalvlaran/deconv/store/fs"
	s3store "github.com/katalvlaran/deconv/store/s3"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deconvolve an expression table against a reference profile",
		Example: `  deconv run --profile signature.txt.gz --expression bulk.txt.gz --outdir results
  deconv run --config deconv.yaml --workers 8 --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.run(cmd)
		},
	}

	f := cmd.Flags()
	f.String("profile", "", "Reference profile table (features × cell types)")
	f.String("expression", "", "Expression table (features × samples)")
	f.String("outdir", "", "Output directory for the fs driver")
	f.String("driver", "", "Output store: fs, s3 or memory")
	f.Bool("force", false, "Recompute even when a stored result exists")
	f.Int("workers", 0, "Concurrent per-sample solves")
	f.String("metrics-file", "", "Write Prometheus metrics to this textfile")

	for key, flag := range map[string]string{
		"inputs.profile":    "profile",
		"inputs.expression": "expression",
		"output.dir":        "outdir",
		"output.driver":     "driver",
		"run.force":         "force",
		"solver.workers":    "workers",
		"metrics.file":      "metrics-file",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}

	return cmd
}

func (a *app) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, log := a.cfg, a.logger

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := deconv.NewMetrics(reg)
	if err != nil {
		return err
	}

	step := pipeline.New(st,
		pipeline.Inputs{ProfilePath: cfg.Inputs.Profile, ExpressionPath: cfg.Inputs.Expression},
		pipeline.WithLogger(log),
		pipeline.WithDeconvOptions(
			deconv.WithWorkers(cfg.Solver.Workers),
			deconv.WithSolverOptions(cfg.SolverOptions()),
			deconv.WithMetrics(metrics),
		),
	)
	out, err := step.Run(ctx, cfg.Run.Force)
	if err != nil {
		log.Error("Deconvolution failed", zap.Error(err))
		return err
	}

	if cfg.Metrics.File != "" {
		if err = prometheus.WriteToTextfile(cfg.Metrics.File, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	samples, cellTypes := out.Proportions.Shape()
	if out.Cached {
		fmt.Fprintf(w, "Loaded cached result: %d samples × %d cell types\n", samples, cellTypes)
		return nil
	}
	d := out.Summary.Diagnostics
	fmt.Fprintf(w, "Deconvolved %d samples × %d cell types (run %s)\n", samples, cellTypes, out.Summary.RunID)
	fmt.Fprintf(w, "Residual mean %.6g, min %.6g, max %.6g\n", d.MeanResidual, d.MinResidual, d.MaxResidual)
	if d.Degenerate > 0 {
		fmt.Fprintf(w, "Degenerate samples: %v\n", out.Summary.Degenerate)
	}

	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch store.Driver(cfg.Output.Driver) {
	case store.DriverFS:
		return fs.New(cfg.Output.Dir)
	case store.DriverS3:
		return s3store.New(ctx, s3store.Config{
			Region:    cfg.Output.S3.Region,
			Bucket:    cfg.Output.S3.Bucket,
			Endpoint:  cfg.Output.S3.Endpoint,
			Prefix:    cfg.Output.S3.Prefix,
			PathStyle: cfg.Output.S3.PathStyle,
		})
	case store.DriverMemory:
		return store.NewMemory(), nil
	}

	return nil, fmt.Errorf("unknown output driver %q", cfg.Output.Driver)
}
