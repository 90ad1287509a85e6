package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Control is an external input vector. Network systems take none, the type
// stays so integrators keep a single calling convention.
type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// InPlaceSystem writes the derivative into a caller-owned buffer. Integrators
// prefer it over Derive when available.
type InPlaceSystem interface {
	System
	DeriveInto(dst, x State, t float64)
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt, tol float64) (State, float64, error)
}

type Observer interface {
	OnStep(x State, t float64)
}

// Result holds one state per requested output time.
type Result struct {
	States     []State
	Times      []float64
	StepsTaken int
}

// Trajectory returns the states as a plain time-steps × dimension matrix.
func (r *Result) Trajectory() [][]float64 {
	out := make([][]float64, len(r.States))
	for i, s := range r.States {
		out[i] = s
	}
	return out
}
