// Package analysis estimates dynamical invariants of network trajectories.
package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// reference trajectory and a copy displaced by perturbation in the first
// state component. The separation is renormalized to perturbation after
// every step and the exponent is the mean log growth per unit time. A
// positive value indicates chaos.
func LyapunovExponent(
	ctx context.Context,
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) (float64, error) {
	if len(x0) == 0 {
		return 0, dynamo.Configf(dynamo.ErrConfiguration, "state", "initial state is empty")
	}
	if !(dt > 0) || !(duration >= dt) {
		return 0, dynamo.Configf(dynamo.ErrConfiguration, "time", "need 0 < dt <= duration, got dt=%v duration=%v", dt, duration)
	}
	if !(perturbation > 0) {
		return 0, dynamo.Configf(dynamo.ErrConfiguration, "perturbation", "must be positive, got %v", perturbation)
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation

	var u dynamo.Control
	sumLog := 0.0
	steps := int(math.Floor(duration/dt + 1e-9))

	for k := 0; k < steps; k++ {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
		}

		t := float64(k) * dt
		x = integ.Step(dyn, x, u, t, dt)
		xp = integ.Step(dyn, xp, u, t, dt)
		if !x.IsValid() || !xp.IsValid() {
			return 0, &dynamo.SimulationError{Step: k, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		sep := xp.Sub(x).Norm()
		if sep == 0 {
			// Trajectories merged; restart the displacement.
			xp = x.Clone()
			xp[0] += perturbation
			sumLog += math.Log(math.SmallestNonzeroFloat64 / perturbation)
			continue
		}
		sumLog += math.Log(sep / perturbation)

		scale := perturbation / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	return sumLog / (float64(steps) * dt), nil
}
