package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/netdyn/internal/dataio"
	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/experiment"
	"github.com/san-kum/netdyn/internal/export"
	"github.com/san-kum/netdyn/internal/graph"
	"github.com/san-kum/netdyn/internal/network"
	"github.com/san-kum/netdyn/internal/storage"
	"github.com/san-kum/netdyn/internal/viz"
)

var (
	outFile     string
	paletteName string
	asciiCells  bool
	plotHeight  int
	plotWidth   int
	plotNodes   int
	svgKind     string
	svgWidth    int
	svgHeight   int
	cellSize    int
)

func newGraphCmd() *cobra.Command {
	var (
		n      int
		sp     float64
		s      int64
		strict bool
		show   bool
	)
	cmd := &cobra.Command{
		Use:   "graph [archetype]",
		Short: "generate an adjacency matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arch, err := graph.ParseArchetype(args[0])
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(s))

			var m *dynamo.Matrix
			if strict && arch.UsesSparsity() {
				m, err = graph.GenerateFullRank(sp, n, rng, experiment.MaxRankAttempts)
			} else {
				m, err = graph.GenerateUnipartite(sp, arch, n, rng)
			}
			if err != nil {
				return err
			}

			if outFile != "" {
				if err := dataio.SaveMatrix(outFile, m); err != nil {
					return err
				}
				fmt.Printf("wrote %dx%d %s matrix to %s (%d edges, rank %d)\n",
					m.Rows, m.Cols, arch, outFile, m.CountNonZero(), m.Rank(1e-9))
			} else if !show {
				return dataio.WriteMatrix(os.Stdout, m)
			}
			if show {
				fmt.Print(viz.Heatmap(m, viz.HeatmapOptions{ASCII: asciiCells}))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "nodes", network.DefaultNodes, "number of nodes")
	cmd.Flags().Float64Var(&sp, "sparsity", 0.1, "fraction of zero entries")
	cmd.Flags().Int64Var(&s, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&strict, "strict-rank", false, "redraw until full rank")
	cmd.Flags().BoolVar(&show, "show", false, "draw the matrix as a heatmap")
	cmd.Flags().BoolVar(&asciiCells, "ascii", false, "draw heatmap cells as glyphs")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the matrix to a file")
	return cmd
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().IntVar(&plotHeight, "height", 15, "chart height")
	cmd.Flags().IntVar(&plotWidth, "width", 80, "chart width")
	cmd.Flags().IntVar(&plotNodes, "max-nodes", 8, "maximum number of nodes to plot (0 for all)")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	law, err := network.ParseLaw(meta.Model)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("law: %s\n", meta.Model)
	fmt.Printf("nodes: %d\n", meta.Nodes)
	fmt.Printf("samples: %d\n\n", len(states))

	chart, err := viz.TimeSeries(times, states, viz.TimeSeriesOptions{
		Law:      law,
		Height:   plotHeight,
		Width:    plotWidth,
		MaxNodes: plotNodes,
	})
	if err != nil {
		return err
	}
	fmt.Println(chart)
	return nil
}

func newHeatmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heatmap [run_id|file]",
		Short: "draw a stored or saved adjacency matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadAdjacency(args[0])
			if err != nil {
				return err
			}
			p, err := parsePalette(paletteName)
			if err != nil {
				return err
			}
			fmt.Print(viz.Heatmap(m, viz.HeatmapOptions{Palette: p, ASCII: asciiCells}))
			return nil
		},
	}
	cmd.Flags().StringVar(&paletteName, "palette", "auto", "auto, binary, ternary or continuous")
	cmd.Flags().BoolVar(&asciiCells, "ascii", false, "draw cells as glyphs")
	return cmd
}

// loadAdjacency treats ref as a file path when one exists, and as a run ID
// otherwise.
func loadAdjacency(ref string) (*dynamo.Matrix, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return dataio.LoadMatrix(ref)
	}
	return storage.New(dataDir).LoadAdjacency(ref)
}

func parsePalette(name string) (viz.Palette, error) {
	for _, p := range []viz.Palette{viz.PaletteAuto, viz.PaletteBinary, viz.PaletteTernary, viz.PaletteContinuous} {
		if p.String() == name {
			return p, nil
		}
	}
	return viz.PaletteAuto, fmt.Errorf("unknown palette: %s", name)
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}
}

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a time series or adjacency heatmap as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	cmd.Flags().StringVar(&svgKind, "kind", "timeseries", "timeseries or heatmap")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	cmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	cmd.Flags().IntVar(&cellSize, "cell", 12, "heatmap cell size")
	return cmd
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var doc string
	switch svgKind {
	case "timeseries":
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		law, err := network.ParseLaw(meta.Model)
		if err != nil {
			return err
		}
		states, times, err := st.LoadStates(runID)
		if err != nil {
			return err
		}
		doc, err = export.TimeSeriesSVG(times, states, law, svgWidth, svgHeight)
		if err != nil {
			return err
		}
	case "heatmap":
		m, err := st.LoadAdjacency(runID)
		if err != nil {
			return err
		}
		doc = export.HeatmapSVG(m, cellSize, viz.DetectPalette(m))
	default:
		return fmt.Errorf("unknown svg kind: %s", svgKind)
	}

	if outFile == "" {
		_, err := fmt.Fprint(os.Stdout, doc)
		return err
	}
	if err := os.WriteFile(outFile, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}
