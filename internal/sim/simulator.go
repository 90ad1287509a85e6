// Package sim drives a dynamo.System over a time grid with a
// dynamo.Integrator and records one state per grid point, the way
// odeint-style solvers report trajectories.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/netdyn/internal/dynamo"
)

const (
	DefaultMaxStep = 0.01
	DefaultMinStep = 1e-10
)

// shapeChecker is implemented by systems that can validate an initial state
// against their own arrays (network.System does).
type shapeChecker interface {
	Check(x0 dynamo.State) error
}

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	observers  []dynamo.Observer
	logger     *slog.Logger

	maxStep   float64
	minStep   float64
	tolerance float64
	validate  bool
}

type Option func(*Simulator)

// WithMaxStep bounds the integrator step. Grid intervals longer than h are
// split into substeps.
func WithMaxStep(h float64) Option {
	return func(s *Simulator) { s.maxStep = h }
}

// WithTolerance enables adaptive stepping with the given local error
// tolerance.
func WithTolerance(tol float64) Option {
	return func(s *Simulator) { s.tolerance = tol }
}

func WithMinStep(h float64) Option {
	return func(s *Simulator) { s.minStep = h }
}

func WithObserver(o dynamo.Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithValidateState toggles the NaN/Inf check after every grid point.
func WithValidateState(v bool) Option {
	return func(s *Simulator) { s.validate = v }
}

func New(dyn dynamo.System, integrator dynamo.Integrator, opts ...Option) *Simulator {
	s := &Simulator{
		dyn:        dyn,
		integrator: integrator,
		logger:     slog.Default(),
		maxStep:    DefaultMaxStep,
		minStep:    DefaultMinStep,
		validate:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 at grid[0] and returns the state at every grid
// time. The first state is a copy of x0.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, grid []float64) (*dynamo.Result, error) {
	if err := s.validateRun(x0, grid); err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		States: make([]dynamo.State, 0, len(grid)),
		Times:  make([]float64, 0, len(grid)),
	}

	x := x0.Clone()
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, grid[0])
	s.notify(x, grid[0])

	h := s.maxStep
	for k := 1; k < len(grid); k++ {
		var (
			steps int
			err   error
		)
		x, h, steps, err = s.advance(ctx, x, grid[k-1], grid[k], h)
		result.StepsTaken += steps
		if err != nil {
			var simErr *dynamo.SimulationError
			if !errors.As(err, &simErr) {
				simErr = &dynamo.SimulationError{Step: result.StepsTaken, Time: grid[k-1], State: x.Clone(), Wrapped: err}
			}
			s.logger.Warn("integration stopped", "t", simErr.Time, "step", simErr.Step, "err", simErr.Wrapped)
			return result, simErr
		}

		if s.validate && !x.IsValid() {
			return result, &dynamo.SimulationError{Step: result.StepsTaken, Time: grid[k], State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, grid[k])
		s.notify(x, grid[k])
	}

	s.logger.Debug("integration finished", "points", len(result.Times), "steps", result.StepsTaken)
	return result, nil
}

func (s *Simulator) validateRun(x0 dynamo.State, grid []float64) error {
	if len(grid) == 0 {
		return dynamo.Configf(dynamo.ErrConfiguration, "time", "grid is empty")
	}
	for i := 1; i < len(grid); i++ {
		if !(grid[i] > grid[i-1]) {
			return dynamo.Configf(dynamo.ErrConfiguration, "time", "grid must be strictly increasing at index %d", i)
		}
	}
	if s.maxStep <= 0 || math.IsNaN(s.maxStep) {
		return dynamo.Configf(dynamo.ErrConfiguration, "max_step", "must be positive, got %v", s.maxStep)
	}
	if s.tolerance < 0 {
		return dynamo.Configf(dynamo.ErrConfiguration, "tolerance", "must be non-negative, got %v", s.tolerance)
	}
	if want := s.dyn.StateDim(); len(x0) != want {
		return fmt.Errorf("%w: initial state has length %d, system needs %d", dynamo.ErrShapeMismatch, len(x0), want)
	}
	if c, ok := s.dyn.(shapeChecker); ok {
		if err := c.Check(x0); err != nil {
			return err
		}
	}
	return nil
}

// advance integrates x from t0 to t1. It returns the new state, the step
// size to try next and the number of accepted steps.
func (s *Simulator) advance(ctx context.Context, x dynamo.State, t0, t1, h float64) (dynamo.State, float64, int, error) {
	var u dynamo.Control
	t := t0
	steps := 0

	for t1-t > 1e-12*math.Max(1, math.Abs(t1)) {
		select {
		case <-ctx.Done():
			return x, h, steps, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		dt := math.Min(h, s.maxStep)
		if t+dt > t1 {
			dt = t1 - t
		}

		if s.tolerance <= 0 {
			x = s.integrator.Step(s.dyn, x, u, t, dt)
			t += dt
			steps++
			continue
		}

		xNew, used, next, err := s.adaptiveStep(x, u, t, dt)
		if err != nil {
			return x, h, steps, &dynamo.SimulationError{Step: steps, Time: t, State: x.Clone(), Wrapped: err}
		}
		x = xNew
		t += used
		steps++
		h = next
	}

	return x, h, steps, nil
}

// adaptiveStep returns the accepted state, the dt that produced it and the
// dt to try next.
func (s *Simulator) adaptiveStep(x dynamo.State, u dynamo.Control, t, dt float64) (dynamo.State, float64, float64, error) {
	if adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		for {
			xNew, next, err := adaptive.StepAdaptive(s.dyn, x, u, t, dt, s.tolerance)
			if err == nil {
				return xNew, dt, next, nil
			}
			if !errors.Is(err, dynamo.ErrStepRejected) {
				return nil, 0, 0, err
			}
			if next < s.minStep {
				return nil, 0, 0, dynamo.ErrStepTooSmall
			}
			dt = next
		}
	}

	// Step doubling for integrators without an embedded error estimate.
	for {
		x1 := s.integrator.Step(s.dyn, x, u, t, dt)
		xHalf := s.integrator.Step(s.dyn, x, u, t, dt/2)
		x2 := s.integrator.Step(s.dyn, xHalf, u, t+dt/2, dt/2)

		errNorm := x1.Sub(x2).Norm()
		if errNorm > s.tolerance {
			if dt/2 < s.minStep {
				return nil, 0, 0, dynamo.ErrStepTooSmall
			}
			dt /= 2
			continue
		}

		next := dt
		if errNorm < s.tolerance/10 {
			next = math.Min(dt*2, s.maxStep)
		}
		return x2, dt, next, nil
	}
}

func (s *Simulator) notify(x dynamo.State, t float64) {
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}
