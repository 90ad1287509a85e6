package dataio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/netdyn/internal/dynamo"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.dat")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("# header\n1 2 3\n\n  4\t5 6  \n"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, rows)
}

func TestReadRowsRagged(t *testing.T) {
	_, err := ReadRows(strings.NewReader("1 2\n3\n"))
	require.ErrorIs(t, err, dynamo.ErrDimension)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadRowsBadNumber(t *testing.T) {
	_, err := ReadRows(strings.NewReader("1 x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1, column 2")
}

func TestReadRowsNonFinite(t *testing.T) {
	for _, v := range []string{"nan", "Inf", "-inf"} {
		_, err := ReadRows(strings.NewReader("1 1\n1 " + v + "\n"))
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "line 2, column 2")
	}
}

func TestLoadMatrix(t *testing.T) {
	m, err := LoadMatrix(writeFile(t, "0 1\n1 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows)
	assert.Equal(t, 2, m.Cols)
	assert.Equal(t, 1.0, m.At(0, 1))

	_, err = LoadMatrix(writeFile(t, "# nothing\n"))
	assert.ErrorIs(t, err, dynamo.ErrDimension)

	_, err = LoadMatrix(filepath.Join(t.TempDir(), "missing.dat"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadVector(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []float64
	}{
		{"column", "1.5\n2\n3e-1\n", []float64{1.5, 2, 0.3}},
		{"row", "1 2 3\n", []float64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadVector(writeFile(t, tt.content))
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}

	_, err := LoadVector(writeFile(t, "1 2\n3 4\n"))
	assert.ErrorIs(t, err, dynamo.ErrDimension)
}

func TestWriteMatrixRoundTrip(t *testing.T) {
	m, err := dynamo.FromRows([][]float64{{0, 1.25}, {-1, 1e-9}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m))
	assert.Equal(t, "0 1.25\n-1 1e-09\n", buf.String())

	path := filepath.Join(t.TempDir(), "adj.txt")
	require.NoError(t, SaveMatrix(path, m))
	back, err := LoadMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, m.Data, back.Data)
}
