// Package export writes simulation output as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/network"
	"github.com/san-kum/netdyn/internal/viz"
)

var strokeColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

const (
	marginLeft   = 50.0
	marginRight  = 110.0
	marginTop    = 20.0
	marginBottom = 40.0
)

// TimeSeriesSVG draws one polyline per node against time with a legend
// ("Node 1", "Node 2", ...) on the right.
func TimeSeriesSVG(times []float64, states [][]float64, law network.Law, width, height int) (string, error) {
	if len(states) < 2 {
		return "", fmt.Errorf("%w: need at least two states, got %d", dynamo.ErrDimension, len(states))
	}
	if len(times) != len(states) {
		return "", fmt.Errorf("%w: %d times for %d states", dynamo.ErrDimension, len(times), len(states))
	}

	series := law.NodeSeries(states)

	minT, maxT := times[0], times[len(times)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if maxY == minY {
		minY, maxY = minY-1, maxY+1
	}
	pad := (maxY - minY) * 0.05
	minY -= pad
	maxY += pad

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom
	px := func(t float64) float64 { return marginLeft + (t-minT)/(maxT-minT)*plotW }
	py := func(v float64) float64 { return marginTop + plotH - (v-minY)/(maxY-minY)*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444444"/>
`, width, height, width, height, marginLeft, marginTop, plotW, plotH)

	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="12" text-anchor="middle">Time</text>
`, marginLeft+plotW/2, float64(height)-10)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="start">%g</text>
<text x="%.1f" y="%.1f" font-size="10" text-anchor="end">%g</text>
`, marginLeft, marginTop+plotH+14, minT, marginLeft+plotW, marginTop+plotH+14, maxT)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="end">%.3g</text>
<text x="%.1f" y="%.1f" font-size="10" text-anchor="end">%.3g</text>
`, marginLeft-4, marginTop+10, maxY, marginLeft-4, marginTop+plotH, minY)

	for i, s := range series {
		color := strokeColors[i%len(strokeColors)]
		sb.WriteString(`<polyline fill="none" stroke="` + color + `" stroke-width="1.2" points="`)
		for k, v := range s {
			if k > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", px(times[k]), py(v))
		}
		sb.WriteString("\"/>\n")

		ly := marginTop + 14*float64(i) + 8
		lx := marginLeft + plotW + 10
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
<text x="%.1f" y="%.1f" font-size="11">Node %d</text>
`, lx, ly, lx+16, ly, color, lx+20, ly+4, i+1)
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// HeatmapSVG draws the adjacency matrix as square cells using the same
// palettes as the terminal heatmap.
func HeatmapSVG(m *dynamo.Matrix, cellSize int, palette viz.Palette) string {
	if palette == viz.PaletteAuto {
		palette = viz.DetectPalette(m)
	}
	maxAbs := viz.MaxAbs(m)

	cs := float64(cellSize)
	width := float64(m.Cols) * cs
	height := float64(m.Rows) * cs

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<g stroke="#cccccc" stroke-width="0.5">
`, width, height, width, height)

	for i := 0; i < m.Rows; i++ {
		for j, v := range m.Row(i) {
			fmt.Fprintf(&sb, `<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s"/>
`, float64(j)*cs, float64(i)*cs, cs, cs, viz.HexColor(v, palette, maxAbs))
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}
