package integrators

import "github.com/san-kum/netdyn/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method. Stage buffers are
// reused between steps, so an RK4 value must not be shared by goroutines.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

// stage weights: offset of each stage's evaluation point along the step
var rk4Offsets = [4]float64{0, 0.5, 0.5, 1}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	for s := range r.k {
		r.k[s] = grow(r.k[s], n)
	}
	r.scratch = grow(r.scratch, n)

	derive(dyn, r.k[0], x, u, t)
	for s := 1; s < 4; s++ {
		h := dt * rk4Offsets[s]
		prev := r.k[s-1]
		for i := 0; i < n; i++ {
			r.scratch[i] = x[i] + h*prev[i]
		}
		derive(dyn, r.k[s], r.scratch, u, t+h)
	}

	next := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		next[i] = x[i] + dt6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}
