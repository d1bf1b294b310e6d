// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deconv/config"
	"github.com/katalvlaran/deconv/nnls"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "deconv.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	return p
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, "fs", cfg.Output.Driver)
	require.Equal(t, 1, cfg.Solver.Workers)
	require.Equal(t, 0, cfg.Solver.MaxIter)
	require.Equal(t, nnls.DefaultTolerance, cfg.Solver.Tolerance)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "us-east-1", cfg.Output.S3.Region)

	// Defaults alone lack inputs and an output dir.
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
}

func TestLoadFromPath(t *testing.T) {
	p := writeConfig(t, `
inputs:
  profile: sig.txt.gz
  expression: expr.txt.gz
output:
  dir: out
solver:
  workers: 4
  max_iter: 50
log:
  level: debug
`)
	cfg, err := config.LoadFromPath(p)
	require.NoError(t, err)
	require.Equal(t, "sig.txt.gz", cfg.Inputs.Profile)
	require.Equal(t, "expr.txt.gz", cfg.Inputs.Expression)
	require.Equal(t, "out", cfg.Output.Dir)
	require.Equal(t, 4, cfg.Solver.Workers)
	require.Equal(t, nnls.Options{MaxIter: 50, Tolerance: nnls.DefaultTolerance}, cfg.SolverOptions())
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeConfig(t, `
inputs: {profile: a, expression: b}
output: {dir: out}
solver: {workers: 2}
`)
	t.Setenv("DECONV_SOLVER_WORKERS", "8")
	t.Setenv("DECONV_RUN_FORCE", "true")

	cfg, err := config.LoadFromPath(p)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Solver.Workers)
	require.True(t, cfg.Run.Force)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.Default()
		cfg.Inputs.Profile = "p"
		cfg.Inputs.Expression = "e"
		cfg.Output.Dir = "out"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no profile", func(c *config.Config) { c.Inputs.Profile = "" }},
		{"no expression", func(c *config.Config) { c.Inputs.Expression = "" }},
		{"fs without dir", func(c *config.Config) { c.Output.Dir = "" }},
		{"s3 without bucket", func(c *config.Config) { c.Output.Driver = "s3" }},
		{"unknown driver", func(c *config.Config) { c.Output.Driver = "ftp" }},
		{"zero workers", func(c *config.Config) { c.Solver.Workers = 0 }},
		{"negative max iter", func(c *config.Config) { c.Solver.MaxIter = -1 }},
		{"negative tolerance", func(c *config.Config) { c.Solver.Tolerance = -1 }},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}

	mem := valid()
	mem.Output.Driver = "memory"
	mem.Output.Dir = ""
	require.NoError(t, mem.Validate())
}
