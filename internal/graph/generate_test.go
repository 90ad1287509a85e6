package graph

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullyConnected(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		m, err := GenerateUnipartite(0.5, FullyConnected, n, nil)
		require.NoError(t, err)
		require.Equal(t, n, m.Rows)
		require.Equal(t, n, m.Cols)
		for _, v := range m.Data {
			assert.Equal(t, 1.0, v)
		}
	}
}

func TestFullyNested(t *testing.T) {
	for _, n := range []int{2, 3, 8} {
		m, err := GenerateUnipartite(0, FullyNested, n, nil)
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				want := 0.0
				if j > i {
					want = 1
				}
				assert.Equal(t, want, m.At(i, j), "entry (%d,%d)", i, j)
			}
		}
	}
}

func TestFullRank_Density(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m, err := GenerateUnipartite(0.3, FullRank, 10, rng)
	require.NoError(t, err)

	assert.Equal(t, 70, m.CountNonZero())
	for _, v := range m.Data {
		assert.True(t, v == 0 || v == 1)
	}
}

func TestFixedDensity_Extremes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	empty, err := GenerateUnipartite(1, FixedDensity, 4, rng)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.CountNonZero())

	full, err := GenerateUnipartite(0, FixedDensity, 4, rng)
	require.NoError(t, err)
	assert.Equal(t, 16, full.CountNonZero())
}

func TestFixedDensity_Reproducible(t *testing.T) {
	a, err := GenerateUnipartite(0.5, FixedDensity, 6, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := GenerateUnipartite(0.5, FixedDensity, 6, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)
}

func TestGenerateUnipartite_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name      string
		sparsity  float64
		archetype Archetype
		nodes     int
		rng       *rand.Rand
		kind      error
	}{
		{"unknown archetype", 0.1, Archetype("small_world"), 5, rng, dynamo.ErrUnsupportedArchetype},
		{"zero nodes", 0.1, FullyConnected, 0, rng, dynamo.ErrConfiguration},
		{"negative sparsity", -0.1, FullRank, 5, rng, dynamo.ErrConfiguration},
		{"sparsity above one", 1.5, FixedDensity, 5, rng, dynamo.ErrConfiguration},
		{"missing rng", 0.1, FullRank, 5, nil, dynamo.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateUnipartite(tt.sparsity, tt.archetype, tt.nodes, tt.rng)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestUnsupportedArchetype_NamesValue(t *testing.T) {
	_, err := GenerateUnipartite(0, Archetype("ring"), 3, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ring")
}

func TestGenerateFullRank(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m, err := GenerateFullRank(0.3, 6, rng, 100)
	require.NoError(t, err)
	assert.Equal(t, 6, m.Rank(1e-9))
	assert.Equal(t, 25, m.CountNonZero())

	_, err = GenerateFullRank(1, 3, rng, 5)
	assert.True(t, errors.Is(err, dynamo.ErrRankDeficient))
}

func TestGenerateBipartite(t *testing.T) {
	_, err := GenerateBipartite(3, 4)
	assert.True(t, errors.Is(err, dynamo.ErrNotImplemented))
}

func TestParseArchetype(t *testing.T) {
	a, err := ParseArchetype("fully_nested")
	require.NoError(t, err)
	assert.Equal(t, FullyNested, a)
	assert.False(t, a.UsesSparsity())
	assert.True(t, FixedDensity.UsesSparsity())

	_, err = ParseArchetype("bipartite")
	assert.True(t, errors.Is(err, dynamo.ErrUnsupportedArchetype))
}
