package integrators

import (
	"math"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// Dormand-Prince 5(4) tableau. The seventh stage is evaluated at the
// fifth-order solution and only feeds the error estimate.
var (
	dpNodes    = [6]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1}
	dpCoupling = [6][5]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
	}
	dpWeights = [6]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84}
	dpError   = [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	}
)

// RK45 is an adaptive Dormand-Prince integrator. Like RK4 it keeps stage
// buffers between steps.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64

	k       [7]dynamo.State
	scratch dynamo.State
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	xNew, _ := r.step(dyn, x, u, t, dt)
	return xNew
}

// StepAdaptive takes one Dormand-Prince step and proposes the next dt. A
// step whose error exceeds tol is rejected: x is returned unchanged together
// with a smaller dt and dynamo.ErrStepRejected.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt, tol float64) (dynamo.State, float64, error) {
	xNew, errMax := r.step(dyn, x, u, t, dt)
	errRatio := errMax / tol

	if errRatio > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		return x, dt * scale, dynamo.ErrStepRejected
	}

	var dtNew float64
	if errRatio > 0 {
		scale := math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
		dtNew = dt * scale
	} else {
		dtNew = dt * r.maxScale
	}

	return xNew, dtNew, nil
}

// step returns the fifth-order solution and the scaled error estimate.
func (r *RK45) step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) (dynamo.State, float64) {
	n := len(x)
	for s := range r.k {
		r.k[s] = grow(r.k[s], n)
	}
	r.scratch = grow(r.scratch, n)

	derive(dyn, r.k[0], x, u, t)
	for s := 1; s < len(dpNodes); s++ {
		for i := 0; i < n; i++ {
			acc := 0.0
			for j := 0; j < s; j++ {
				acc += dpCoupling[s][j] * r.k[j][i]
			}
			r.scratch[i] = x[i] + dt*acc
		}
		derive(dyn, r.k[s], r.scratch, u, t+dpNodes[s]*dt)
	}

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		acc := 0.0
		for s, w := range dpWeights {
			acc += w * r.k[s][i]
		}
		xNew[i] = x[i] + dt*acc
	}
	derive(dyn, r.k[6], xNew, u, t+dt)

	errMax := 0.0
	for i := 0; i < n; i++ {
		est := 0.0
		for s, w := range dpError {
			est += w * r.k[s][i]
		}
		scale := math.Abs(x[i]) + math.Abs(dt*r.k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(dt*est)/scale)
	}

	return xNew, errMax
}
