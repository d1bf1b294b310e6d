// SPDX-License-Identifier: MIT

// Package config loads run configuration from defaults, an optional YAML
// file and DECONV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/katalvlaran/deconv/logging"
	"github.com/katalvlaran/deconv/nnls"
	"github.com/katalvlaran/deconv/store"
)

// EnvPrefix namespaces environment overrides: solver.workers → DECONV_SOLVER_WORKERS.
const EnvPrefix = "DECONV"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full run configuration.
type Config struct {
	Inputs  InputsConfig  `mapstructure:"inputs"`
	Output  OutputConfig  `mapstructure:"output"`
	Solver  SolverConfig  `mapstructure:"solver"`
	Run     RunConfig     `mapstructure:"run"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// InputsConfig names the profile and expression tables.
type InputsConfig struct {
	Profile    string `mapstructure:"profile"`
	Expression string `mapstructure:"expression"`
}

// OutputConfig selects the artifact store.
type OutputConfig struct {
	Dir    string   `mapstructure:"dir"`
	Driver string   `mapstructure:"driver"`
	S3     S3Config `mapstructure:"s3"`
}

// S3Config configures the s3 driver. Credentials come from the AWS chain.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	Prefix    string `mapstructure:"prefix"`
	PathStyle bool   `mapstructure:"path_style"`
}

// SolverConfig tunes the per-sample NNLS fan-out.
type SolverConfig struct {
	Workers   int     `mapstructure:"workers"`
	MaxIter   int     `mapstructure:"max_iter"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// RunConfig controls cache behaviour.
type RunConfig struct {
	Force bool `mapstructure:"force"`
}

// LogConfig selects logger level and encoding.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// MetricsConfig names the Prometheus textfile written after a run; empty disables it.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

// NewViper returns a viper instance with defaults and environment binding set.
// Callers may bind flags onto it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads path (when non-empty) into v, unmarshals and validates.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads a config file on top of defaults and environment.
func LoadFromPath(path string) (*Config, error) {
	return Load(NewViper(), path)
}

// Default returns the built-in defaults, ignoring the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)

	return cfg
}

// Validate checks ranges and driver-specific requirements.
func (c *Config) Validate() error {
	var errs []error
	if c.Inputs.Profile == "" {
		errs = append(errs, errors.New("inputs.profile is required"))
	}
	if c.Inputs.Expression == "" {
		errs = append(errs, errors.New("inputs.expression is required"))
	}
	switch store.Driver(c.Output.Driver) {
	case store.DriverFS:
		if c.Output.Dir == "" {
			errs = append(errs, errors.New("output.dir is required for the fs driver"))
		}
	case store.DriverS3:
		if c.Output.S3.Bucket == "" {
			errs = append(errs, errors.New("output.s3.bucket is required for the s3 driver"))
		}
	case store.DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("output.driver %q: want fs, s3 or memory", c.Output.Driver))
	}
	if c.Solver.Workers < 1 {
		errs = append(errs, fmt.Errorf("solver.workers must be >= 1, got %d", c.Solver.Workers))
	}
	if c.Solver.MaxIter < 0 {
		errs = append(errs, fmt.Errorf("solver.max_iter must be >= 0, got %d", c.Solver.MaxIter))
	}
	if !(c.Solver.Tolerance >= 0) || math.IsInf(c.Solver.Tolerance, 1) {
		errs = append(errs, fmt.Errorf("solver.tolerance must be finite and >= 0, got %g", c.Solver.Tolerance))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return nil
}

// SolverOptions converts the solver section into nnls options.
func (c *Config) SolverOptions() nnls.Options {
	return nnls.Options{MaxIter: c.Solver.MaxIter, Tolerance: c.Solver.Tolerance}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("inputs.profile", "")
	v.SetDefault("inputs.expression", "")

	v.SetDefault("output.dir", "")
	v.SetDefault("output.driver", string(store.DriverFS))
	v.SetDefault("output.s3.bucket", "")
	v.SetDefault("output.s3.region", "us-east-1")
	v.SetDefault("output.s3.endpoint", "")
	v.SetDefault("output.s3.prefix", "")
	v.SetDefault("output.s3.path_style", false)

	v.SetDefault("solver.workers", 1)
	v.SetDefault("solver.max_iter", 0)
	v.SetDefault("solver.tolerance", nnls.DefaultTolerance)

	v.SetDefault("run.force", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("metrics.file", "")
}
