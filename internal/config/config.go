// Package config provides configuration loading for the simulator.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"gaussian-ca-simulation/internal/automaton"
	"gaussian-ca-simulation/internal/logging"
	"gaussian-ca-simulation/internal/sweep"
)

// DefaultThreshold is 1/(10e), roughly where the automaton turns irregular.
var DefaultThreshold = 1 / (10 * math.E)

// Config contains all simulator settings.
type Config struct {
	// GridSize is the side length of the square grid.
	GridSize int `json:"grid_size" yaml:"grid_size"`

	// Steps is how many updates each trial (or single run) performs.
	Steps int `json:"n_steps" yaml:"n_steps"`

	// Trials is how many independent trials run per parameter value.
	Trials int `json:"n_trials" yaml:"n_trials"`

	// Seed is the base seed trial seeds are derived from.
	Seed int64 `json:"seed" yaml:"seed"`

	// Workers bounds concurrent trials. 0 uses every available CPU.
	Workers int `json:"workers" yaml:"workers"`

	// ParameterRange is the threshold interval swept.
	ParameterRange RangeConfig `json:"parameter_range" yaml:"parameter_range"`

	// InitPolicy selects how each trial's starting grid is built.
	InitPolicy PolicyConfig `json:"init_policy" yaml:"init_policy"`

	// Threshold is used by single runs instead of a sweep.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Frames is the observation cadence of single runs, in steps.
	Frames int `json:"frames" yaml:"frames"`

	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// RangeConfig is a closed, evenly spaced interval of Count values.
type RangeConfig struct {
	Start float64 `json:"start" yaml:"start"`
	Stop  float64 `json:"stop" yaml:"stop"`
	Count int     `json:"count" yaml:"count"`
}

// PolicyConfig selects an init policy by Kind. Only the fields of the chosen
// kind are read.
type PolicyConfig struct {
	// Kind is "uniform", "noisy" or "pattern".
	Kind string `json:"kind" yaml:"kind"`

	// Value is the cell value of the uniform policy.
	Value float64 `json:"value" yaml:"value"`

	// Base and Sigma parameterize the noisy policy.
	Base  float64 `json:"base" yaml:"base"`
	Sigma float64 `json:"sigma" yaml:"sigma"`

	// Template and ValueHigh parameterize the pattern policy.
	Template  [][]float64 `json:"template,omitempty" yaml:"template,omitempty"`
	ValueHigh float64     `json:"value_high" yaml:"value_high"`
}

type LoggingConfig struct {
	// Level is "info" (default), "debug", "trace", "warn" or "error".
	Level string `json:"level" yaml:"level"`
}

type MetricsConfig struct {
	// Addr, when set, serves Prometheus metrics at http://Addr/metrics.
	Addr string `json:"addr" yaml:"addr"`
}

// Default returns the settings of the automated threshold experiment.
func Default() *Config {
	return &Config{
		GridSize: 6,
		Steps:    300,
		Trials:   40,
		Seed:     1,
		Workers:  0,
		ParameterRange: RangeConfig{
			Start: -0.005,
			Stop:  0.08,
			Count: 200,
		},
		InitPolicy: PolicyConfig{
			Kind:      "noisy",
			Value:     0.8,
			Base:      0.8,
			Sigma:     0.05,
			ValueHigh: 1,
		},
		Threshold: DefaultThreshold,
		Frames:    50,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds configuration from defaults, then the YAML file at path (if
// path is non-empty), then environment variables.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys missing
// from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// Validate checks that the configuration is valid. Failures wrap
// sweep.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	_, err := c.SweepConfig()
	if err != nil {
		return err
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", sweep.ErrInvalidConfiguration, c.Frames)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("%w: invalid log level: %s (valid: info, debug, trace, warn, error)", sweep.ErrInvalidConfiguration, c.Logging.Level)
	}
	return nil
}

// Policy builds the configured init policy.
func (c *Config) Policy() (automaton.Initializer, error) {
	p := c.InitPolicy
	switch strings.ToLower(p.Kind) {
	case "uniform":
		return automaton.Uniform{Value: p.Value}, nil
	case "noisy":
		return automaton.Noisy{Base: p.Base, Sigma: p.Sigma}, nil
	case "pattern":
		tmpl := p.Template
		if len(tmpl) == 0 {
			tmpl = automaton.DefaultTemplate
		}
		return automaton.Pattern{Template: tmpl, High: p.ValueHigh}, nil
	default:
		return nil, fmt.Errorf("%w: unknown init policy %q (valid: uniform, noisy, pattern)", sweep.ErrInvalidConfiguration, p.Kind)
	}
}

// SweepConfig converts the settings into a validated sweep.Config.
func (c *Config) SweepConfig() (sweep.Config, error) {
	if c.ParameterRange.Count < 1 {
		return sweep.Config{}, fmt.Errorf("%w: parameter_range.count must be positive, got %d", sweep.ErrInvalidConfiguration, c.ParameterRange.Count)
	}
	policy, err := c.Policy()
	if err != nil {
		return sweep.Config{}, err
	}
	sc := sweep.Config{
		GridSize: c.GridSize,
		Steps:    c.Steps,
		Trials:   c.Trials,
		Params: sweep.Range{
			Start: c.ParameterRange.Start,
			Stop:  c.ParameterRange.Stop,
			Count: c.ParameterRange.Count,
		}.Values(),
		Init:    policy,
		Seed:    c.Seed,
		Workers: c.Workers,
	}
	if err := sc.Validate(); err != nil {
		return sweep.Config{}, err
	}
	return sc, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"GCA_GRID_SIZE", &config.GridSize},
		{"GCA_STEPS", &config.Steps},
		{"GCA_TRIALS", &config.Trials},
		{"GCA_WORKERS", &config.Workers},
		{"GCA_FRAMES", &config.Frames},
	}
	for _, e := range ints {
		if v := os.Getenv(e.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", sweep.ErrInvalidConfiguration, e.name, err)
			}
			*e.dst = n
		}
	}

	if v := os.Getenv("GCA_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: GCA_SEED: %v", sweep.ErrInvalidConfiguration, err)
		}
		config.Seed = n
	}

	if v := os.Getenv("GCA_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: GCA_THRESHOLD: %v", sweep.ErrInvalidConfiguration, err)
		}
		config.Threshold = f
	}

	if v := os.Getenv("GCA_INIT_POLICY"); v != "" {
		config.InitPolicy.Kind = v
	}

	if v := os.Getenv("GCA_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("GCA_METRICS_ADDR"); v != "" {
		config.Metrics.Addr = v
	}
	return nil
}
