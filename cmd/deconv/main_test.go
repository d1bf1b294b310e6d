// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deconv/frame"
	"github.com/katalvlaran/deconv/matrix"
	"github.com/katalvlaran/deconv/pipeline"
)

func writeTable(t *testing.T, path string, rows, cols []string, vals []float64) {
	t.Helper()
	m, err := matrix.NewDenseFrom(len(rows), len(cols), vals)
	require.NoError(t, err)
	f, err := frame.New(rows, cols, m)
	require.NoError(t, err)
	require.NoError(t, frame.WriteFile(path, f))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func inputs(t *testing.T) (profile, expression string) {
	t.Helper()
	dir := t.TempDir()
	profile = filepath.Join(dir, "signature.txt.gz")
	expression = filepath.Join(dir, "bulk.txt.gz")
	features := []string{"f1", "f2", "f3"}
	writeTable(t, profile, features, []string{"CT_A", "CT_B"}, []float64{9, 1, 8, 2, 1, 7})
	writeTable(t, expression, features, []string{"s1", "s2"}, []float64{1, 0, 1, 0, 0, 1})

	return profile, expression
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "deconv dev\n", out)
}

func TestRun_WritesArtifactsAndMetrics(t *testing.T) {
	profile, expression := inputs(t)
	outdir := filepath.Join(t.TempDir(), "results")
	metrics := filepath.Join(t.TempDir(), "deconv.prom")

	out, err := execute(t, "run",
		"--profile", profile,
		"--expression", expression,
		"--outdir", outdir,
		"--workers", "2",
		"--metrics-file", metrics)
	require.NoError(t, err)
	require.Contains(t, out, "Deconvolved 2 samples × 2 cell types")

	props, err := frame.ReadFile(filepath.Join(outdir, filepath.FromSlash(pipeline.ResultKey)))
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, props.Rows())
	for _, key := range []string{pipeline.ResidualsKey, pipeline.SummaryKey} {
		_, err = os.Stat(filepath.Join(outdir, filepath.FromSlash(key)))
		require.NoError(t, err, key)
	}

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(prom), "deconv_runs_total 1"), string(prom))
	require.Contains(t, string(prom), "deconv_samples_total 2")

	// Second invocation hits the cache; --force recomputes.
	out, err = execute(t, "run", "--profile", profile, "--expression", expression, "--outdir", outdir)
	require.NoError(t, err)
	require.Contains(t, out, "Loaded cached result: 2 samples × 2 cell types")

	out, err = execute(t, "run", "--profile", profile, "--expression", expression, "--outdir", outdir, "--force")
	require.NoError(t, err)
	require.Contains(t, out, "Deconvolved")
}

func TestRun_ConfigFile(t *testing.T) {
	profile, expression := inputs(t)
	cfgPath := filepath.Join(t.TempDir(), "deconv.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"inputs:\n  profile: "+profile+"\n  expression: "+expression+"\n"+
			"output:\n  driver: memory\n"+
			"log:\n  level: error\n"), 0o644))

	out, err := execute(t, "run", "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, "Deconvolved 2 samples")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	_, err := execute(t, "run", "--outdir", t.TempDir())
	require.Error(t, err)

	profile, _ := inputs(t)
	_, err = execute(t, "run",
		"--profile", profile,
		"--expression", filepath.Join(t.TempDir(), "absent.txt.gz"),
		"--outdir", t.TempDir())
	require.ErrorIs(t, err, pipeline.ErrMissingInput)
}
