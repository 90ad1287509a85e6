// Package sweep runs a model over a grid of parameter values.
package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// Grid is the cartesian product of named value lists.
type Grid struct {
	names  []string
	ranges [][]float64
}

func NewGrid(names []string, ranges [][]float64) (*Grid, error) {
	if len(names) != len(ranges) {
		return nil, dynamo.Configf(dynamo.ErrConfiguration, "sweep", "%d names but %d ranges", len(names), len(ranges))
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if seen[name] {
			return nil, dynamo.Configf(dynamo.ErrConfiguration, "sweep", "parameter %q given twice", name)
		}
		seen[name] = true
		if len(ranges[i]) == 0 {
			return nil, dynamo.Configf(dynamo.ErrConfiguration, "sweep", "parameter %q has no values", name)
		}
	}
	return &Grid{names: names, ranges: ranges}, nil
}

func (g *Grid) Names() []string { return append([]string(nil), g.names...) }

// Size is the number of points in the grid.
func (g *Grid) Size() int {
	if len(g.names) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Points enumerates the grid with the last parameter varying fastest.
func (g *Grid) Points() []map[string]float64 {
	if len(g.names) == 0 {
		return nil
	}
	points := make([]map[string]float64, 0, g.Size())
	g.collect(0, make(map[string]float64), &points)
	return points
}

func (g *Grid) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.names) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}

	name := g.names[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.collect(depth+1, current, out)
	}
	delete(current, name)
}

// ParseRange reads "start:stop:step" (stop included when hit within
// rounding) or a comma separated list of values.
func ParseRange(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty range")
	}

	if !strings.Contains(s, ":") {
		parts := strings.Split(s, ",")
		out := make([]float64, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("range %q: %w", s, err)
			}
			out[i] = v
		}
		return out, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("range %q: want start:stop:step", s)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", s, err)
		}
		vals[i] = v
	}
	start, stop, step := vals[0], vals[1], vals[2]
	if !(step > 0) || stop < start {
		return nil, fmt.Errorf("range %q: need step > 0 and stop >= start", s)
	}

	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out, nil
}
