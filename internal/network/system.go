package network

import "github.com/san-kum/netdyn/internal/dynamo"

// System binds a model to fixed node parameters so it can be driven by any
// dynamo.Integrator.
type System struct {
	model *Model
	adj   *dynamo.Matrix
	omega []float64
}

// System returns the model as a dynamo.System using its own adjacency.
func (m *Model) System(omega []float64) *System {
	return &System{model: m, adj: m.adjacency, omega: append([]float64(nil), omega...)}
}

func (s *System) StateDim() int   { return s.model.StateDim() }
func (s *System) ControlDim() int { return 0 }

func (s *System) Derive(x dynamo.State, _ dynamo.Control, t float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	s.model.field(dx, x, t, s.adj, s.omega)
	return dx
}

// DeriveInto writes the derivative into dst without allocating.
func (s *System) DeriveInto(dst, x dynamo.State, t float64) {
	s.model.field(dst, x, t, s.adj, s.omega)
}

// Check runs the shape check for a prospective initial state.
func (s *System) Check(x0 dynamo.State) error {
	return s.model.CheckShape(x0, s.adj, s.omega)
}

func (s *System) Model() *Model { return s.model }
