package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// Palette selects how matrix entries map to colours.
type Palette int

const (
	PaletteAuto Palette = iota
	// PaletteBinary: 0 white, anything else black.
	PaletteBinary
	// PaletteTernary: -1 red, 0 white, 1 blue.
	PaletteTernary
	// PaletteContinuous shades by magnitude: blue for positive, red for
	// negative.
	PaletteContinuous
)

func (p Palette) String() string {
	switch p {
	case PaletteBinary:
		return "binary"
	case PaletteTernary:
		return "ternary"
	case PaletteContinuous:
		return "continuous"
	}
	return "auto"
}

// DetectPalette picks binary for 0/1 matrices, ternary for matrices with
// entries in {-1, 0, 1}, continuous otherwise.
func DetectPalette(m *dynamo.Matrix) Palette {
	ternary := false
	for _, v := range m.Data {
		switch v {
		case 0, 1:
		case -1:
			ternary = true
		default:
			return PaletteContinuous
		}
	}
	if ternary {
		return PaletteTernary
	}
	return PaletteBinary
}

const (
	hexWhite = "#ffffff"
	hexBlack = "#000000"
	hexRed   = "#d62728"
	hexBlue  = "#1f77b4"

	colorWhite = lipgloss.Color(hexWhite)
	colorBlack = lipgloss.Color(hexBlack)
	colorRed   = lipgloss.Color(hexRed)
	colorBlue  = lipgloss.Color(hexBlue)
)

type HeatmapOptions struct {
	Palette Palette
	// ASCII draws glyphs instead of background colours.
	ASCII bool
}

var shadeRamp = []byte(" .:-=+*#%@")

// Heatmap renders m one row per line, two characters per cell, followed by
// a legend line.
func Heatmap(m *dynamo.Matrix, opts HeatmapOptions) string {
	palette := opts.Palette
	if palette == PaletteAuto {
		palette = DetectPalette(m)
	}

	maxAbs := MaxAbs(m)

	var b strings.Builder
	for i := 0; i < m.Rows; i++ {
		for _, v := range m.Row(i) {
			if opts.ASCII {
				g := glyph(v, palette, maxAbs)
				b.WriteByte(g)
				b.WriteByte(g)
			} else {
				b.WriteString(lipgloss.NewStyle().Background(cellColor(v, palette, maxAbs)).Render("  "))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(palette, maxAbs, opts.ASCII))
	b.WriteByte('\n')
	return b.String()
}

// MaxAbs is the largest finite magnitude in m, or 0.
func MaxAbs(m *dynamo.Matrix) float64 {
	maxAbs := 0.0
	for _, v := range m.Data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
	}
	return maxAbs
}

// scaled maps |v| onto [0, 1] relative to maxAbs. Non-finite entries report
// ok == false.
func scaled(v, maxAbs float64) (f float64, ok bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	if math.IsInf(v, 0) {
		return 1, false
	}
	if maxAbs == 0 {
		return 0, true
	}
	return math.Min(math.Abs(v)/maxAbs, 1), true
}

// HexColor is the colour of entry v under palette p, as "#rrggbb". maxAbs
// scales the continuous palette.
func HexColor(v float64, p Palette, maxAbs float64) string {
	switch p {
	case PaletteBinary:
		if v == 0 {
			return hexWhite
		}
		return hexBlack
	case PaletteTernary:
		switch {
		case v < 0:
			return hexRed
		case v > 0:
			return hexBlue
		}
		return hexWhite
	}

	if v == 0 || math.IsNaN(v) {
		return hexWhite
	}
	f, _ := scaled(v, maxAbs)
	fade := func(c int) int { return int(math.Round(255 - f*float64(255-c))) }
	if v > 0 {
		return fmt.Sprintf("#%02x%02x%02x", fade(0x1f), fade(0x77), fade(0xb4))
	}
	return fmt.Sprintf("#%02x%02x%02x", fade(0xd6), fade(0x27), fade(0x28))
}

func cellColor(v float64, p Palette, maxAbs float64) lipgloss.Color {
	return lipgloss.Color(HexColor(v, p, maxAbs))
}

func glyph(v float64, p Palette, maxAbs float64) byte {
	switch p {
	case PaletteBinary:
		if v == 0 {
			return '.'
		}
		return '#'
	case PaletteTernary:
		switch {
		case v < 0:
			return '-'
		case v > 0:
			return '+'
		}
		return '.'
	}

	f, ok := scaled(v, maxAbs)
	if !ok {
		return '!'
	}
	return shadeRamp[int(f*float64(len(shadeRamp)-1))]
}

func legend(p Palette, maxAbs float64, ascii bool) string {
	swatch := func(c lipgloss.Color, g byte) string {
		if ascii {
			return string([]byte{g, g})
		}
		return lipgloss.NewStyle().Background(c).Render("  ")
	}

	switch p {
	case PaletteBinary:
		return swatch(colorBlack, '#') + " edge  " + swatch(colorWhite, '.') + " none"
	case PaletteTernary:
		return swatch(colorRed, '-') + " -1  " + swatch(colorWhite, '.') + " 0  " + swatch(colorBlue, '+') + " 1"
	}
	return fmt.Sprintf("%s 0 .. %s |w| = %g (blue > 0, red < 0)", swatch(colorWhite, ' '), swatch(colorBlue, '@'), maxAbs)
}
