// Package dataio reads and writes whitespace-delimited numeric text: one
// matrix row per line, blank lines and lines starting with '#' skipped.
// It is the on-disk format for adjacency matrices and node parameters.
package dataio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// ReadRows parses r into rows. Rows must all have the same width and every
// value must be finite.
func ReadRows(r io.Reader) ([][]float64, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %w", line, i+1, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d, column %d: non-finite value %q", line, i+1, f)
			}
			row[i] = v
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: line %d has %d values, expected %d", dynamo.ErrDimension, line, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadMatrix reads a matrix file.
func LoadMatrix(path string) (*dynamo.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w: no data", path, dynamo.ErrDimension)
	}
	return dynamo.FromRows(rows)
}

// LoadVector reads a vector file. Values may be laid out one per line or
// on a single line; any other shape is an error.
func LoadVector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	switch {
	case len(rows) == 0:
		return nil, fmt.Errorf("%s: %w: no data", path, dynamo.ErrDimension)
	case len(rows) == 1:
		return rows[0], nil
	case len(rows[0]) == 1:
		out := make([]float64, len(rows))
		for i, r := range rows {
			out[i] = r[0]
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: %w: %dx%d is not a vector", path, dynamo.ErrDimension, len(rows), len(rows[0]))
}

// WriteMatrix writes m in the format LoadMatrix reads.
func WriteMatrix(w io.Writer, m *dynamo.Matrix) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < m.Rows; i++ {
		for j, v := range m.Row(i) {
			if j > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// SaveMatrix writes m to path.
func SaveMatrix(path string, m *dynamo.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMatrix(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
