package network

import (
	"fmt"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// Law is a coupling law. The set is closed; every switch over it lists all
// four cases.
type Law int

const (
	Kuramoto1 Law = iota + 1
	Kuramoto2
	MichaelisMenten
	Roessler
)

var lawNames = map[Law]string{
	Kuramoto1:       "kuramoto1",
	Kuramoto2:       "kuramoto2",
	MichaelisMenten: "michaelis_menten",
	Roessler:        "roessler",
}

// Laws lists every coupling law in declaration order.
func Laws() []Law {
	return []Law{Kuramoto1, Kuramoto2, MichaelisMenten, Roessler}
}

func (l Law) String() string {
	if name, ok := lawNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Law(%d)", int(l))
}

// ParseLaw maps a canonical law name to its Law.
func ParseLaw(name string) (Law, error) {
	if name == "" {
		return 0, dynamo.Configf(dynamo.ErrConfiguration, "name", "missing model name")
	}
	for _, l := range Laws() {
		if lawNames[l] == name {
			return l, nil
		}
	}
	return 0, dynamo.Configf(dynamo.ErrConfiguration, "name", "unknown model %q (want one of kuramoto1, kuramoto2, michaelis_menten, roessler)", name)
}

// StateDim is the length of the state vector for n nodes.
func (l Law) StateDim(n int) int {
	if l == Roessler {
		return 3 * n
	}
	return n
}

// UsesNodeParameter reports whether the law reads the per-node parameter
// (natural frequency) vector.
func (l Law) UsesNodeParameter() bool {
	return l == Kuramoto1 || l == Kuramoto2
}

func (l Law) field() (VectorField, error) {
	switch l {
	case Kuramoto1:
		return Kuramoto1Field, nil
	case Kuramoto2:
		return Kuramoto2Field, nil
	case MichaelisMenten:
		return MichaelisMentenField, nil
	case Roessler:
		return RoesslerField, nil
	default:
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidModel, l)
	}
}

// NodeValue is the scalar plotted for node i: the state itself, or the x
// component for roessler.
func (l Law) NodeValue(state []float64, i int) float64 {
	if l == Roessler {
		return state[3*i]
	}
	return state[i]
}

// NodeSeries splits a trajectory (time-steps × state) into one series per
// node using NodeValue.
func (l Law) NodeSeries(states [][]float64) [][]float64 {
	if len(states) == 0 {
		return nil
	}
	n := len(states[0])
	if l == Roessler {
		n /= 3
	}
	series := make([][]float64, n)
	for i := range series {
		series[i] = make([]float64, len(states))
		for k, s := range states {
			series[i][k] = l.NodeValue(s, i)
		}
	}
	return series
}
