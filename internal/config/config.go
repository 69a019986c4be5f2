package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkrv/lqnash/internal/solver"
)

const (
	DefaultDt             = 0.1
	DefaultHorizon        = 2.0
	DefaultMaxIterations  = 50
	DefaultTolerance      = 1e-2
	DefaultInitialStep    = 1.0
	DefaultMinStep        = 1e-3
	DefaultStepShrink     = 0.5
	DefaultRegularization = 1e-4
	DefaultCostTolerance  = 1e-4
)

type Config struct {
	Problem    string  `yaml:"problem"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Horizon    float64 `yaml:"horizon"`

	MaxIterations  int     `yaml:"max_iterations"`
	Tolerance      float64 `yaml:"tolerance"`
	InitialStep    float64 `yaml:"initial_step"`
	MinStep        float64 `yaml:"min_step"`
	StepShrink     float64 `yaml:"step_shrink"`
	Regularization float64 `yaml:"regularization"`
	Acceptance     string  `yaml:"acceptance"` // "total" or "per_player"
	CostTolerance  float64 `yaml:"cost_tolerance"`
	StopOnStall    bool    `yaml:"stop_on_stall"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem:        "one_player_reachability",
		Integrator:     "rk4",
		Dt:             DefaultDt,
		Horizon:        DefaultHorizon,
		MaxIterations:  DefaultMaxIterations,
		Tolerance:      DefaultTolerance,
		InitialStep:    DefaultInitialStep,
		MinStep:        DefaultMinStep,
		StepShrink:     DefaultStepShrink,
		Regularization: DefaultRegularization,
		Acceptance:     "total",
		CostTolerance:  DefaultCostTolerance,
		StopOnStall:    true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Steps is the number of discrete control steps over the horizon.
// Rounded, so a horizon that is a whole multiple of dt is not
// truncated by floating-point representation.
func (c *Config) Steps() int {
	return int(math.Round(c.Horizon / c.Dt))
}

// SolverParams maps the file-level knobs onto the solver's parameter
// struct.
func (c *Config) SolverParams() solver.Params {
	p := solver.DefaultParams()
	p.MaxIterations = c.MaxIterations
	p.ConvergenceTolerance = c.Tolerance
	p.InitialStepSize = c.InitialStep
	p.MinStepSize = c.MinStep
	p.StepShrinkFactor = c.StepShrink
	p.Regularization = c.Regularization
	p.CostTolerance = c.CostTolerance
	p.TerminateOnStall = c.StopOnStall
	if c.Acceptance == "per_player" {
		p.Acceptance = solver.AcceptPerPlayer
	}
	return p
}
