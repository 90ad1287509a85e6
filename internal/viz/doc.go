// Package viz draws runs in the terminal. Node series are plotted with
// asciigraph, adjacency matrices become coloured cell grids (or SVG via the
// export package) and [Live] is a Bubble Tea program that integrates the
// network while it draws: phases on the unit circle for the Kuramoto laws,
// the x-y projection for Rössler and per-node bars otherwise.
//
// The live view listens for space (pause), r (reset), t (theme), ? (help)
// and q (quit).
package viz
