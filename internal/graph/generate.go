// Package graph generates adjacency matrices for network simulations.
//
// Three unipartite archetypes are supported:
//
//   - [FullyConnected]: every entry is 1, self-loops included
//   - [FixedDensity] (alias [FullRank]): a fixed number of ones placed
//     uniformly at random
//   - [FullyNested]: strict upper triangle, a total order with no back-edges
//
// Randomized archetypes draw from an explicit *rand.Rand so runs are
// reproducible and parallel runs never share a generator.
package graph

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/netdyn/internal/dynamo"
)

type Archetype string

const (
	FullyConnected Archetype = "fully_connected"
	// FullRank only controls density. The result is not guaranteed to have
	// full rank; use GenerateFullRank for that.
	FullRank     Archetype = "full_rank"
	FixedDensity Archetype = "fixed_density"
	FullyNested  Archetype = "fully_nested"
)

// Archetypes lists the accepted archetype names.
func Archetypes() []Archetype {
	return []Archetype{FullyConnected, FullRank, FixedDensity, FullyNested}
}

func ParseArchetype(s string) (Archetype, error) {
	for _, a := range Archetypes() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", dynamo.ErrUnsupportedArchetype, s)
}

// UsesSparsity reports whether the archetype reads the sparsity parameter.
func (a Archetype) UsesSparsity() bool {
	return a == FullRank || a == FixedDensity
}

// GenerateUnipartite returns an N×N adjacency matrix of the given archetype.
func GenerateUnipartite(sparsity float64, archetype Archetype, numNodes int, rng *rand.Rand) (*dynamo.Matrix, error) {
	if numNodes <= 0 {
		return nil, dynamo.Configf(dynamo.ErrConfiguration, "num_nodes", "must be positive, got %d", numNodes)
	}

	switch archetype {
	case FullyConnected:
		return dynamo.Ones(numNodes, numNodes), nil
	case FullRank, FixedDensity:
		if err := checkSparsity(sparsity); err != nil {
			return nil, err
		}
		if rng == nil {
			return nil, dynamo.Configf(dynamo.ErrConfiguration, "rng", "archetype %s needs a random source", archetype)
		}
		return fixedDensity(sparsity, numNodes, rng), nil
	case FullyNested:
		return fullyNested(numNodes), nil
	default:
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnsupportedArchetype, string(archetype))
	}
}

// GenerateFullRank redraws fixed-density matrices until one has rank N.
func GenerateFullRank(sparsity float64, numNodes int, rng *rand.Rand, maxAttempts int) (*dynamo.Matrix, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		m, err := GenerateUnipartite(sparsity, FixedDensity, numNodes, rng)
		if err != nil {
			return nil, err
		}
		if m.Rank(1e-9) == numNodes {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: no full-rank %dx%d matrix at sparsity %.3f after %d attempts",
		dynamo.ErrRankDeficient, numNodes, numNodes, sparsity, maxAttempts)
}

// GenerateBipartite is a reserved extension point.
func GenerateBipartite(rows, cols int) (*dynamo.Matrix, error) {
	return nil, fmt.Errorf("%w: bipartite graph generation (%dx%d)", dynamo.ErrNotImplemented, rows, cols)
}

func checkSparsity(sparsity float64) error {
	if math.IsNaN(sparsity) || sparsity < 0 || sparsity > 1 {
		return dynamo.Configf(dynamo.ErrConfiguration, "sparsity", "must be in [0, 1], got %v", sparsity)
	}
	return nil
}

func fixedDensity(sparsity float64, n int, rng *rand.Rand) *dynamo.Matrix {
	total := n * n
	numOnes := int(math.Floor((1 - sparsity) * float64(total)))
	if numOnes > total {
		numOnes = total
	}

	m := dynamo.NewMatrix(n, n)
	for _, idx := range rng.Perm(total)[:numOnes] {
		m.Data[idx] = 1
	}
	return m
}

func fullyNested(n int) *dynamo.Matrix {
	m := dynamo.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.Set(i, j, 1)
		}
	}
	return m
}
