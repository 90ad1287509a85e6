package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/network"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Orange,
	asciigraph.Purple,
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Yellow,
}

type TimeSeriesOptions struct {
	Law    network.Law
	Height int
	Width  int
	// MaxNodes limits the plotted nodes; 0 plots all of them.
	MaxNodes int
	Title    string
}

// TimeSeries plots one line per node against time. Legends read "Node 1",
// "Node 2", ... in node order.
func TimeSeries(times []float64, states [][]float64, opts TimeSeriesOptions) (string, error) {
	if len(states) == 0 {
		return "", fmt.Errorf("%w: no states to plot", dynamo.ErrDimension)
	}
	if len(times) != len(states) {
		return "", fmt.Errorf("%w: %d times for %d states", dynamo.ErrDimension, len(times), len(states))
	}

	series := opts.Law.NodeSeries(states)
	if opts.MaxNodes > 0 && len(series) > opts.MaxNodes {
		series = series[:opts.MaxNodes]
	}
	if len(series) == 0 {
		return "", fmt.Errorf("%w: states are empty", dynamo.ErrDimension)
	}

	legends := make([]string, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		legends[i] = fmt.Sprintf("Node %d", i+1)
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	height := opts.Height
	if height <= 0 {
		height = 15
	}
	width := opts.Width
	if width <= 0 {
		width = 70
	}

	caption := fmt.Sprintf("t = %g .. %g", times[0], times[len(times)-1])
	if opts.Title != "" {
		caption = opts.Title + ", " + caption
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	), nil
}
