// Package experiment assembles a runnable simulation from a config.Config:
// adjacency, node parameters, initial state, model, integrator and
// simulator.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/netdyn/internal/config"
	"github.com/san-kum/netdyn/internal/dataio"
	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/graph"
	"github.com/san-kum/netdyn/internal/network"
	"github.com/san-kum/netdyn/internal/sim"
)

// MaxRankAttempts bounds the redraws for graph.strict_rank.
const MaxRankAttempts = 100

type Experiment struct {
	cfg       *config.Config
	model     *network.Model
	omega     []float64
	grid      []float64
	simulator *sim.Simulator
	logger    *slog.Logger
}

// Build validates cfg and wires every component. Randomness comes from a
// single generator seeded with cfg.Seed and is consumed in a fixed order:
// adjacency, node parameters, initial values.
func Build(cfg *config.Config, reg *Registry, opts ...sim.Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	law, err := network.ParseLaw(cfg.Model)
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	adj, err := buildAdjacency(cfg, rng)
	if err != nil {
		return nil, err
	}
	if cfg.Coupling != 1 {
		adj = adj.Scale(cfg.Coupling)
	}
	n := adj.Rows

	omega, err := loadOrDraw(cfg.NodeParameters, "node_parameters", n, rng)
	if err != nil {
		return nil, err
	}
	initial, err := loadOrDraw(cfg.InitialValues, "initial_values", law.StateDim(n), rng)
	if err != nil {
		return nil, err
	}

	grid := cfg.Grid()
	model, err := network.New(network.Config{
		Name:          cfg.Model,
		NumNodes:      n,
		Adjacency:     adj,
		InitialValues: initial,
		NoiseLevel:    cfg.NoiseLevel,
		Time:          grid,
		Rand:          rng,
	})
	if err != nil {
		return nil, err
	}

	simOpts := []sim.Option{sim.WithMaxStep(cfg.MaxStep)}
	if cfg.Tolerance > 0 {
		simOpts = append(simOpts, sim.WithTolerance(cfg.Tolerance))
	}
	simOpts = append(simOpts, opts...)

	return &Experiment{
		cfg:       cfg.Clone(),
		model:     model,
		omega:     omega,
		grid:      grid,
		simulator: sim.New(model.System(omega), integ, simOpts...),
		logger:    slog.Default(),
	}, nil
}

func buildAdjacency(cfg *config.Config, rng *rand.Rand) (*dynamo.Matrix, error) {
	if cfg.Graph.File != "" {
		adj, err := dataio.LoadMatrix(cfg.Graph.File)
		if err != nil {
			return nil, fmt.Errorf("graph.file: %w", err)
		}
		return adj, nil
	}

	arch, err := graph.ParseArchetype(cfg.Graph.Archetype)
	if err != nil {
		return nil, err
	}
	n := cfg.Nodes
	if n == 0 {
		n = network.DefaultNodes
	}
	if cfg.Graph.StrictRank && arch.UsesSparsity() {
		return graph.GenerateFullRank(cfg.Graph.Sparsity, n, rng, MaxRankAttempts)
	}
	return graph.GenerateUnipartite(cfg.Graph.Sparsity, arch, n, rng)
}

// loadOrDraw reads r.File, or draws n values uniformly from [Low, High).
func loadOrDraw(r config.RangeConfig, field string, n int, rng *rand.Rand) ([]float64, error) {
	if r.File != "" {
		v, err := dataio.LoadVector(r.File)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if len(v) != n {
			return nil, dynamo.Configf(dynamo.ErrDimension, field, "file has %d values, need %d", len(v), n)
		}
		return v, nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = r.Low + (r.High-r.Low)*rng.Float64()
	}
	return out, nil
}

// Run integrates the model over its time grid.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	start := time.Now()
	result, err := e.simulator.Run(ctx, e.model.InitialValues(), e.grid)
	if err != nil {
		return result, fmt.Errorf("%s: %w", e.model.Law(), err)
	}
	e.logger.Debug("run finished",
		"law", e.model.Law().String(),
		"nodes", e.model.NumNodes(),
		"points", len(result.Times),
		"steps", result.StepsTaken,
		"elapsed", time.Since(start))
	return result, nil
}

func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) Model() *network.Model     { return e.model }
func (e *Experiment) Grid() []float64           { return e.grid }
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Omega returns a copy of the node parameters.
func (e *Experiment) Omega() []float64 {
	return append([]float64(nil), e.omega...)
}

// SetLogger replaces the logger used for run summaries.
func (e *Experiment) SetLogger(l *slog.Logger) { e.logger = l }
