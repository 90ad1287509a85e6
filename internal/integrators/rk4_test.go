package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/network"
)

type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int   { return 2 }
func (s *simpleDynamics) ControlDim() int { return 0 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &simpleDynamics{}
	integ := NewRK4()

	x0 := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	x := x0
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

// decay is dx/dt = -x for every component.
type decay struct{ n int }

func (d *decay) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	for i := range x {
		dx[i] = -x[i]
	}
	return dx
}

func (d *decay) StateDim() int   { return d.n }
func (d *decay) ControlDim() int { return 0 }

func TestIntegrators_ExponentialDecay(t *testing.T) {
	tests := []struct {
		name  string
		integ dynamo.Integrator
		tol   float64
	}{
		{"euler", NewEuler(), 2e-2},
		{"rk4", NewRK4(), 1e-8},
		{"rk45", NewRK45(), 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := dynamo.State{1, 2, 3}
			dt := 0.01
			for i := 0; i < 100; i++ {
				x = tt.integ.Step(&decay{n: 3}, x, nil, float64(i)*dt, dt)
			}
			for i, x0 := range []float64{1, 2, 3} {
				want := x0 * math.Exp(-1)
				if math.Abs(x[i]-want) > tt.tol*x0 {
					t.Errorf("component %d: got %.8f, want %.8f", i, x[i], want)
				}
			}
		})
	}
}

func TestRK4_ScratchResize(t *testing.T) {
	integ := NewRK4()
	a := integ.Step(&decay{n: 2}, dynamo.State{1, 1}, nil, 0, 0.1)
	b := integ.Step(&decay{n: 4}, dynamo.State{1, 1, 1, 1}, nil, 0, 0.1)
	if len(a) != 2 || len(b) != 4 {
		t.Fatalf("unexpected lengths %d and %d", len(a), len(b))
	}
	if a[0] != b[3] {
		t.Errorf("same dynamics gave different results: %v vs %v", a[0], b[3])
	}
}

// allocating hides DeriveInto so the integrators fall back to Derive.
type allocating struct{ dynamo.System }

func TestInPlaceMatchesDerive(t *testing.T) {
	for _, law := range []string{"kuramoto2", "roessler"} {
		m, err := network.New(network.Config{Name: law, NumNodes: 6, Time: []float64{0, 1}, Seed: 3})
		if err != nil {
			t.Fatal(err)
		}
		omega := make([]float64, 6)
		for i := range omega {
			omega[i] = 0.5 + 0.1*float64(i)
		}
		var sys dynamo.System = m.System(omega)
		if _, ok := sys.(dynamo.InPlaceSystem); !ok {
			t.Fatalf("%s: network system does not derive in place", law)
		}

		for _, mk := range []func() dynamo.Integrator{
			func() dynamo.Integrator { return NewEuler() },
			func() dynamo.Integrator { return NewRK4() },
			func() dynamo.Integrator { return NewRK45() },
		} {
			fast, slow := mk(), mk()
			a, b := m.InitialValues(), m.InitialValues()
			for i := 0; i < 50; i++ {
				a = fast.Step(sys, a, nil, float64(i)*0.01, 0.01)
				b = slow.Step(allocating{sys}, b, nil, float64(i)*0.01, 0.01)
			}
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("%s: component %d differs: %v vs %v", law, i, a[i], b[i])
				}
			}
		}
	}
}
