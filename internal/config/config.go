package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/graph"
	"github.com/san-kum/netdyn/internal/network"
)

const (
	DefaultModel      = "kuramoto2"
	DefaultIntegrator = "rk4"
	DefaultMaxStep    = 0.01
	DefaultCoupling   = 1.0
	DefaultSparsity   = 0.1
	DefaultStop       = 100.0
	DefaultTimeStep   = 1.0
)

// Config describes one simulation run.
type Config struct {
	Model          string      `yaml:"model"`
	Nodes          int         `yaml:"nodes"`
	Seed           int64       `yaml:"seed"`
	NoiseLevel     float64     `yaml:"noise_level"`
	Coupling       float64     `yaml:"coupling"`
	Integrator     string      `yaml:"integrator"`
	MaxStep        float64     `yaml:"max_step"`
	Tolerance      float64     `yaml:"tolerance,omitempty"`
	Time           TimeConfig  `yaml:"time"`
	Graph          GraphConfig `yaml:"graph"`
	InitialValues  RangeConfig `yaml:"initial_values"`
	NodeParameters RangeConfig `yaml:"node_parameters"`
}

// TimeConfig is the output grid: start, start+step, ... while < stop.
type TimeConfig struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Step  float64 `yaml:"step"`
}

type GraphConfig struct {
	Archetype  string  `yaml:"archetype"`
	Sparsity   float64 `yaml:"sparsity"`
	File       string  `yaml:"file,omitempty"`
	StrictRank bool    `yaml:"strict_rank,omitempty"`
}

// RangeConfig either names a data file or bounds uniform draws in
// [Low, High).
type RangeConfig struct {
	File string  `yaml:"file,omitempty"`
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      DefaultModel,
		Nodes:      network.DefaultNodes,
		Coupling:   DefaultCoupling,
		Integrator: DefaultIntegrator,
		MaxStep:    DefaultMaxStep,
		Time:       TimeConfig{Start: 0, Stop: DefaultStop, Step: DefaultTimeStep},
		Graph: GraphConfig{
			Archetype: string(graph.FullyConnected),
			Sparsity:  DefaultSparsity,
		},
		InitialValues:  RangeConfig{Low: 0, High: 1},
		NodeParameters: RangeConfig{Low: 1, High: 11},
	}
}

// Load reads a YAML file on top of DefaultConfig and validates it.
func Load(path string) (*Config, error) {
	cfg, err := LoadInto(path, DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadInto reads a YAML file on top of a copy of base. Keys missing from the
// file keep base's values. The result is not validated.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Validate checks the fields that can be checked without touching data
// files. Shape checks against the adjacency happen in network.New.
func (c *Config) Validate() error {
	if _, err := network.ParseLaw(c.Model); err != nil {
		return err
	}
	if c.Nodes < 0 {
		return dynamo.Configf(dynamo.ErrConfiguration, "nodes", "must be positive, got %d", c.Nodes)
	}
	if !finite(c.Coupling) {
		return dynamo.Configf(dynamo.ErrConfiguration, "coupling", "must be finite, got %v", c.Coupling)
	}
	if c.Integrator == "" {
		return dynamo.Configf(dynamo.ErrConfiguration, "integrator", "missing integrator name")
	}
	if !(c.MaxStep > 0) || math.IsInf(c.MaxStep, 0) {
		return dynamo.Configf(dynamo.ErrConfiguration, "max_step", "must be positive, got %v", c.MaxStep)
	}
	if c.Tolerance < 0 {
		return dynamo.Configf(dynamo.ErrConfiguration, "tolerance", "must be non-negative, got %v", c.Tolerance)
	}
	if err := c.Time.validate(); err != nil {
		return err
	}

	if c.Graph.File == "" {
		arch, err := graph.ParseArchetype(c.Graph.Archetype)
		if err != nil {
			return err
		}
		if arch.UsesSparsity() && !(c.Graph.Sparsity >= 0 && c.Graph.Sparsity <= 1) {
			return dynamo.Configf(dynamo.ErrConfiguration, "graph.sparsity", "must be in [0, 1], got %v", c.Graph.Sparsity)
		}
	}

	if err := c.InitialValues.validate("initial_values"); err != nil {
		return err
	}
	return c.NodeParameters.validate("node_parameters")
}

func (t TimeConfig) validate() error {
	if !finite(t.Start) || !finite(t.Stop) || !(t.Step > 0) || math.IsInf(t.Step, 0) {
		return dynamo.Configf(dynamo.ErrConfiguration, "time", "start=%v stop=%v step=%v is not a usable grid", t.Start, t.Stop, t.Step)
	}
	if t.Stop <= t.Start {
		return dynamo.Configf(dynamo.ErrConfiguration, "time", "stop (%v) must be greater than start (%v)", t.Stop, t.Start)
	}
	return nil
}

func (r RangeConfig) validate(field string) error {
	if r.File != "" {
		return nil
	}
	if !finite(r.Low) || !finite(r.High) || r.High < r.Low {
		return dynamo.Configf(dynamo.ErrConfiguration, field, "range [%v, %v) is invalid", r.Low, r.High)
	}
	return nil
}

// Grid returns the output times start, start+step, ... strictly below stop.
func (c *Config) Grid() []float64 {
	t := c.Time
	n := int(math.Ceil((t.Stop - t.Start) / t.Step))
	if n <= 0 {
		return nil
	}
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = t.Start + float64(i)*t.Step
	}
	return grid
}

// Clone returns an independent copy; Config holds no references.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
