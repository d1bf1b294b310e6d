// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/deconv/deconv"
	"github.com/katalvlaran/deconv/frame"
	"github.com/katalvlaran/deconv/store"
)

// StepName prefixes every artifact key.
const StepName = "perform_deconvolution"

// Artifact keys.
const (
	ResultKey    = StepName + "/deconvolution_table.txt.gz"
	ResidualsKey = StepName + "/residuals.txt.gz"
	SummaryKey   = StepName + "/summary.yaml"
)

// ErrMissingInput reports an input given neither as a frame nor as a
// readable path.
var ErrMissingInput = errors.New("pipeline: missing input")

// Inputs names the step's two tables. A non-nil frame takes precedence over
// its path.
type Inputs struct {
	ProfilePath    string
	ExpressionPath string
	Profile        *frame.Frame
	Expression     *frame.Frame
}

// Summary is the YAML run record stored next to the tables.
type Summary struct {
	RunID       string             `yaml:"run_id"`
	StartedAt   time.Time          `yaml:"started_at"`
	FinishedAt  time.Time          `yaml:"finished_at"`
	Profile     string             `yaml:"profile,omitempty"`
	Expression  string             `yaml:"expression,omitempty"`
	Report      deconv.Report      `yaml:"report"`
	Diagnostics deconv.Diagnostics `yaml:"diagnostics"`
	Degenerate  []string           `yaml:"degenerate,omitempty"`
}

// Outcome is what Run produced or loaded.
type Outcome struct {
	// Proportions is the persisted result table (samples × cell types).
	Proportions *frame.Frame
	Residuals   []deconv.Residual
	// Summary is nil when a cached run has no summary artifact.
	Summary *Summary
	// Result is the full in-memory result; nil when Cached.
	Result *deconv.Result
	Cached bool
}

// Option configures a Step.
type Option func(*Step)

// WithLogger sets the step logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Step) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDeconvOptions forwards options to deconv.Deconvolve.
func WithDeconvOptions(opts ...deconv.Option) Option {
	return func(s *Step) { s.deconvOpts = append(s.deconvOpts, opts...) }
}

// Step is one cached deconvolution run against a store.
type Step struct {
	store      store.Store
	inputs     Inputs
	logger     *zap.Logger
	deconvOpts []deconv.Option
	now        func() time.Time
}

// New returns a Step persisting to st.
func New(st store.Store, in Inputs, opts ...Option) *Step {
	s := &Step{store: st, inputs: in, logger: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}

	return s
}

// Run returns the stored outcome when present and force is false; otherwise
// it deconvolves and persists. Nothing is written when the computation fails.
// A forced rerun removes the previous step artifacts, result table first,
// before writing new ones, so a failed write leaves no cache hit behind.
func (s *Step) Run(ctx context.Context, force bool) (*Outcome, error) {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID), zap.String("step", StepName))

	cached, err := s.store.Exists(ctx, ResultKey)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	if cached && !force {
		log.Info("Loading cached result", zap.String("key", ResultKey))
		return s.load(ctx)
	}
	if cached {
		log.Info("Recomputing cached result", zap.Bool("force", true))
	}

	started := s.now()
	profile, err := s.input("profile", s.inputs.Profile, s.inputs.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	expression, err := s.input("expression", s.inputs.Expression, s.inputs.ExpressionPath)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	log.Info("Arguments",
		zap.String("profile", s.inputs.ProfilePath),
		zap.String("expression", s.inputs.ExpressionPath),
		zap.Bool("force", force))

	opts := append(append([]deconv.Option(nil), s.deconvOpts...), deconv.WithLogger(log))
	res, err := deconv.Deconvolve(ctx, profile, expression, opts...)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	sum := &Summary{
		RunID:       runID,
		StartedAt:   started.UTC(),
		FinishedAt:  s.now().UTC(),
		Profile:     s.inputs.ProfilePath,
		Expression:  s.inputs.ExpressionPath,
		Report:      res.Report,
		Diagnostics: res.Diagnostics,
		Degenerate:  res.Degenerate,
	}
	if err = s.persist(ctx, res, sum, cached); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	log.Info("Stored result", zap.String("key", ResultKey), zap.String("driver", string(s.store.Driver())))

	return &Outcome{
		Proportions: res.Proportions,
		Residuals:   res.Residuals,
		Summary:     sum,
		Result:      res,
	}, nil
}

func (s *Step) input(name string, f *frame.Frame, path string) (*frame.Frame, error) {
	if f != nil {
		return f, nil
	}
	if path == "" {
		return nil, fmt.Errorf("%s: no frame or path: %w", name, ErrMissingInput)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %s: %w", name, path, ErrMissingInput)
	}
	out, err := frame.ReadFile(path)
	if errors.Is(err, frame.ErrDuplicateRow) {
		return nil, fmt.Errorf("%s: %w: %w", name, deconv.ErrInvalidOrder, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return out, nil
}

// persist encodes every artifact before writing any of them. With replace
// set, stale artifacts are cleared once encoding has succeeded.
func (s *Step) persist(ctx context.Context, res *deconv.Result, sum *Summary, replace bool) error {
	var table, resid, summary bytes.Buffer
	if err := frame.WriteGzip(&table, res.Proportions); err != nil {
		return fmt.Errorf("encode %s: %w", ResultKey, err)
	}
	rf, err := deconv.ResidualFrame(res.Residuals)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ResidualsKey, err)
	}
	if err = frame.WriteGzip(&resid, rf); err != nil {
		return fmt.Errorf("encode %s: %w", ResidualsKey, err)
	}
	enc := yaml.NewEncoder(&summary)
	enc.SetIndent(2)
	if err = enc.Encode(sum); err != nil {
		return fmt.Errorf("encode %s: %w", SummaryKey, err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", SummaryKey, err)
	}
	if replace {
		if err = s.clear(ctx); err != nil {
			return err
		}
	}

	for _, a := range []struct {
		key string
		buf *bytes.Buffer
	}{
		{ResidualsKey, &resid},
		{SummaryKey, &summary},
		{ResultKey, &table},
	} {
		if err = s.store.Put(ctx, a.key, a.buf); err != nil {
			return err
		}
	}

	return nil
}

// clear deletes the result table, then every other artifact under StepName.
func (s *Step) clear(ctx context.Context) error {
	if _, err := s.store.Delete(ctx, ResultKey); err != nil {
		return fmt.Errorf("clear %s: %w", ResultKey, err)
	}
	keys, err := s.store.List(ctx, StepName+"/")
	if err != nil {
		return fmt.Errorf("clear %s: %w", StepName, err)
	}
	for _, k := range keys {
		if _, err = s.store.Delete(ctx, k); err != nil {
			return fmt.Errorf("clear %s: %w", k, err)
		}
	}
	s.logger.Debug("Cleared previous artifacts", zap.Int("count", len(keys)+1))

	return nil
}

func (s *Step) load(ctx context.Context) (*Outcome, error) {
	props, err := s.readFrame(ctx, ResultKey)
	if err != nil {
		return nil, fmt.Errorf("Run: cached: %w", err)
	}
	out := &Outcome{Proportions: props, Cached: true}

	rf, err := s.readFrame(ctx, ResidualsKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("Run: cached: %w", err)
	default:
		if out.Residuals, err = deconv.ResidualsFromFrame(rf); err != nil {
			return nil, fmt.Errorf("Run: cached: %w", err)
		}
	}

	sum, err := s.readSummary(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("Run: cached: %w", err)
	default:
		out.Summary = sum
	}

	return out, nil
}

func (s *Step) readFrame(ctx context.Context, key string) (*frame.Frame, error) {
	rc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	f, err := frame.Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	return f, nil
}

func (s *Step) readSummary(ctx context.Context) (*Summary, error) {
	rc, err := s.store.Get(ctx, SummaryKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SummaryKey, err)
	}
	sum := &Summary{}
	if err = yaml.Unmarshal(b, sum); err != nil {
		return nil, fmt.Errorf("%s: %w", SummaryKey, err)
	}

	return sum, nil
}
