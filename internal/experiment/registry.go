package experiment

import (
	"sort"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/graph"
	"github.com/san-kum/netdyn/internal/integrators"
	"github.com/san-kum/netdyn/internal/network"
)

// Registry resolves integrator names. Integrators keep scratch buffers, so
// every lookup builds a fresh instance.
type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	return r
}

// Register adds or replaces an integrator constructor.
func (r *Registry) Register(name string, fn func() dynamo.Integrator) {
	r.integrators[name] = fn
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, dynamo.Configf(dynamo.ErrConfiguration, "integrator", "unknown integrator %q", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListModels returns the coupling law names.
func (r *Registry) ListModels() []string {
	laws := network.Laws()
	names := make([]string, len(laws))
	for i, l := range laws {
		names[i] = l.String()
	}
	return names
}

func (r *Registry) ListArchetypes() []string {
	archs := graph.Archetypes()
	names := make([]string, len(archs))
	for i, a := range archs {
		names[i] = string(a)
	}
	return names
}
