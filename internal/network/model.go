// Package network holds the validated configuration of a coupled dynamical
// system on a graph and evaluates its vector field.
//
// A [Model] is built once per simulation run by [New], which checks every
// invariant up front and fails with a typed error. After construction the
// model is read-only: [Model.Derivative] performs no validation of its own,
// so the integrator hot path stays free of checks.
package network

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// DefaultNodes is used when neither NumNodes nor Adjacency is given.
const DefaultNodes = 10

// Config is the unvalidated input to New. Zero values select defaults,
// except Name and Time which are required.
type Config struct {
	Name          string
	NumNodes      int
	Adjacency     *dynamo.Matrix
	InitialValues []float64
	NoiseLevel    float64
	Time          []float64

	// Rand supplies default initial values. When nil a generator seeded
	// with Seed is used.
	Rand *rand.Rand
	Seed int64
}

// Model is a validated network: a coupling law bound to its adjacency,
// initial values and time grid. It is not modified after New.
type Model struct {
	law        Law
	field      VectorField
	numNodes   int
	adjacency  *dynamo.Matrix
	initial    []float64
	noiseLevel float64
	time       []float64
}

// New validates cfg and returns a read-only model. Checks run in a fixed
// order: name, time grid, noise level, node count, adjacency, initial
// values. No default is synthesized before the name is known to be valid.
func New(cfg Config) (*Model, error) {
	law, err := ParseLaw(cfg.Name)
	if err != nil {
		return nil, err
	}
	field, err := law.field()
	if err != nil {
		return nil, err
	}

	if err := checkTime(cfg.Time); err != nil {
		return nil, err
	}

	if math.IsNaN(cfg.NoiseLevel) || math.IsInf(cfg.NoiseLevel, 0) || cfg.NoiseLevel < 0 {
		return nil, dynamo.Configf(dynamo.ErrConfiguration, "noise_level", "must be finite and non-negative, got %v", cfg.NoiseLevel)
	}

	if cfg.NumNodes < 0 {
		return nil, dynamo.Configf(dynamo.ErrConfiguration, "num_nodes", "must be positive, got %d", cfg.NumNodes)
	}

	var adj *dynamo.Matrix
	n := cfg.NumNodes
	if cfg.Adjacency == nil {
		if n == 0 {
			n = DefaultNodes
		}
		adj = dynamo.Ones(n, n)
	} else {
		if !cfg.Adjacency.IsSquare() {
			return nil, dynamo.Configf(dynamo.ErrDimension, "adjacency_matrix", "matrix is %dx%d, want square", cfg.Adjacency.Rows, cfg.Adjacency.Cols)
		}
		if n != 0 && n != cfg.Adjacency.Rows {
			return nil, dynamo.Configf(dynamo.ErrDimension, "num_nodes", "num_nodes is %d but adjacency matrix has %d rows", n, cfg.Adjacency.Rows)
		}
		if cfg.Adjacency.Rows == 0 {
			return nil, dynamo.Configf(dynamo.ErrDimension, "adjacency_matrix", "matrix is empty")
		}
		n = cfg.Adjacency.Rows
		adj = cfg.Adjacency.Clone()
	}

	dim := law.StateDim(n)
	var initial []float64
	if cfg.InitialValues == nil {
		rng := cfg.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(cfg.Seed))
		}
		initial = make([]float64, dim)
		for i := range initial {
			initial[i] = rng.Float64()
		}
	} else {
		if len(cfg.InitialValues) != dim {
			return nil, dynamo.Configf(dynamo.ErrDimension, "initial_values", "%s with %d nodes needs %d values, got %d", law, n, dim, len(cfg.InitialValues))
		}
		initial = append([]float64(nil), cfg.InitialValues...)
	}

	return &Model{
		law:        law,
		field:      field,
		numNodes:   n,
		adjacency:  adj,
		initial:    initial,
		noiseLevel: cfg.NoiseLevel,
		time:       append([]float64(nil), cfg.Time...),
	}, nil
}

func checkTime(grid []float64) error {
	if len(grid) == 0 {
		return dynamo.Configf(dynamo.ErrConfiguration, "time", "simulation time grid is required")
	}
	for i := 1; i < len(grid); i++ {
		if !(grid[i] > grid[i-1]) {
			return dynamo.Configf(dynamo.ErrConfiguration, "time", "grid must be strictly increasing (t[%d]=%v, t[%d]=%v)", i-1, grid[i-1], i, grid[i])
		}
	}
	return nil
}

// Law is the coupling law the model was built with.
func (m *Model) Law() Law { return m.law }

// NumNodes is the number of network nodes.
func (m *Model) NumNodes() int { return m.numNodes }

// StateDim is the state length: one value per node, three for roessler.
func (m *Model) StateDim() int { return m.law.StateDim(m.numNodes) }

// NoiseLevel is the configured noise level. It is stored but not applied.
func (m *Model) NoiseLevel() float64 { return m.noiseLevel }

// Adjacency returns the model's own matrix. It is shared; do not modify it.
func (m *Model) Adjacency() *dynamo.Matrix { return m.adjacency }

// InitialValues returns a copy of the initial state.
func (m *Model) InitialValues() dynamo.State {
	return dynamo.State(append([]float64(nil), m.initial...))
}

// Time returns a copy of the output time grid.
func (m *Model) Time() []float64 {
	return append([]float64(nil), m.time...)
}

// Derivative evaluates the active coupling law at (state, t). adj normally
// is m.Adjacency(); omega is the per-node parameter and is ignored by
// michaelis_menten and roessler. The result has len(state).
func (m *Model) Derivative(state []float64, t float64, adj *dynamo.Matrix, omega []float64) ([]float64, error) {
	dst := make([]float64, len(state))
	if err := m.DerivativeInto(dst, state, t, adj, omega); err != nil {
		return nil, err
	}
	return dst, nil
}

// DerivativeInto is Derivative without the allocation.
func (m *Model) DerivativeInto(dst, state []float64, t float64, adj *dynamo.Matrix, omega []float64) error {
	if m.field == nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidModel, m.law)
	}
	m.field(dst, state, t, adj, omega)
	return nil
}

// CheckShape verifies that state, adj and omega fit each other for the
// active law. Derivative never calls it.
func (m *Model) CheckShape(state []float64, adj *dynamo.Matrix, omega []float64) error {
	if adj == nil || !adj.IsSquare() {
		return fmt.Errorf("%w: adjacency must be square", dynamo.ErrShapeMismatch)
	}
	if want := m.law.StateDim(adj.Rows); len(state) != want {
		return fmt.Errorf("%w: %s on %d nodes needs state length %d, got %d", dynamo.ErrShapeMismatch, m.law, adj.Rows, want, len(state))
	}
	if m.law.UsesNodeParameter() && len(omega) < adj.Rows {
		return fmt.Errorf("%w: %s needs %d node parameters, got %d", dynamo.ErrShapeMismatch, m.law, adj.Rows, len(omega))
	}
	return nil
}
