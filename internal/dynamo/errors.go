package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for model construction and graph generation.
var (
	// ErrConfiguration indicates a missing or unrecognized configuration value.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrDimension indicates a non-square adjacency or a state length that
	// does not match the node count.
	ErrDimension = errors.New("dynamo: dimension mismatch")

	// ErrUnsupportedArchetype indicates an unknown graph archetype.
	ErrUnsupportedArchetype = errors.New("dynamo: unsupported graph archetype")

	// ErrNotImplemented marks declared extension points with no implementation.
	ErrNotImplemented = errors.New("dynamo: not implemented")

	// ErrInvalidModel indicates dispatch on an unknown coupling law.
	ErrInvalidModel = errors.New("dynamo: invalid model")

	// ErrShapeMismatch indicates arrays passed at evaluation time that do not
	// fit the adjacency matrix.
	ErrShapeMismatch = errors.New("dynamo: shape mismatch between state and adjacency")

	// ErrRankDeficient indicates a generated matrix never reached full rank.
	ErrRankDeficient = errors.New("dynamo: matrix is rank deficient")
)

// Simulation errors.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrStepRejected is returned by adaptive integrators when the error
	// estimate exceeds the tolerance. The caller retries with the new dt.
	ErrStepRejected = errors.New("dynamo: adaptive step rejected")
)

// ConfigError names the field that failed validation. It unwraps to Kind,
// one of the sentinel errors above.
type ConfigError struct {
	Field  string
	Reason string
	Kind   error
}

// Configf builds a ConfigError of the given kind.
func Configf(kind error, field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...), Kind: kind}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
