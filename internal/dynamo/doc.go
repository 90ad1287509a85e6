// Package dynamo provides core simulation primitives for networked
// dynamical systems.
//
// The package defines the fundamental interfaces and types shared by the
// graph generators, the coupling laws and the numerical integrators:
//
//   - [State]: vector representing system state
//   - [Matrix]: dense adjacency / coupling matrix
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [InPlaceSystem]: a System that can write its derivative into a buffer
//   - [Integrator]: numerical stepper interface
//   - [Observer]: per-step callback used by simulators and live views
//
// # Example
//
//	adj := dynamo.Ones(3, 3)
//	model, _ := network.New(network.Config{Name: "kuramoto1", Adjacency: adj, Time: grid})
//	s := sim.New(model.System(omega), integrators.NewRK4())
//	result, _ := s.Run(ctx, model.InitialValues(), grid)
//
// # Thread Safety
//
// [Matrix] and [State] values are plain slices and carry no locks. Systems
// built from them are safe for concurrent Derive calls as long as nobody
// mutates the underlying arrays. Integrators keep scratch buffers and must
// not be shared between goroutines.
package dynamo
