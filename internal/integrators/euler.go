package integrators

import "github.com/san-kum/netdyn/internal/dynamo"

// Euler is the explicit first-order method. It is mainly useful as a
// reference when checking the higher-order integrators on a new network.
type Euler struct {
	dx dynamo.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	e.dx = grow(e.dx, len(x))
	derive(dyn, e.dx, x, u, t)

	next := make(dynamo.State, len(x))
	for i, v := range x {
		next[i] = v + dt*e.dx[i]
	}
	return next
}
