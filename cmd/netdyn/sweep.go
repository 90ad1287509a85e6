package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/experiment"
	"github.com/san-kum/netdyn/internal/metrics"
	"github.com/san-kum/netdyn/internal/network"
	"github.com/san-kum/netdyn/internal/sim"
	"github.com/san-kum/netdyn/internal/sweep"
)

var (
	couplingRange string
	seedRange     string
	workers       int
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [law]",
		Short: "run a grid of simulations over coupling and seed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(cmd)
	cmd.Flags().StringVar(&couplingRange, "couplings", "0.5:2:0.5", "coupling values, start:stop:step or a comma list")
	cmd.Flags().StringVar(&seedRange, "seeds", "0", "seeds, start:stop:step or a comma list")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 for GOMAXPROCS)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	law, err := network.ParseLaw(base.Model)
	if err != nil {
		return err
	}

	couplings, err := sweep.ParseRange(couplingRange)
	if err != nil {
		return fmt.Errorf("couplings: %w", err)
	}
	seeds, err := sweep.ParseRange(seedRange)
	if err != nil {
		return fmt.Errorf("seeds: %w", err)
	}
	grid, err := sweep.NewGrid([]string{"coupling", "seed"}, [][]float64{couplings, seeds})
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	points := grid.Points()
	jobs := make([]sweep.Job, len(points))
	values := make([]map[string]float64, len(points))
	for i, p := range points {
		cfg := base.Clone()
		cfg.Coupling = p["coupling"]
		cfg.Seed = int64(p["seed"])
		jobs[i] = sweep.Job{
			Params: p,
			Run: func(ctx context.Context) (*dynamo.Result, error) {
				ms := metrics.Defaults(law)
				var opts []sim.Option
				for _, o := range metrics.Collect(ms) {
					opts = append(opts, sim.WithObserver(o))
				}
				exp, err := experiment.Build(cfg, reg, opts...)
				if err != nil {
					return nil, err
				}
				res, err := exp.Run(ctx)
				values[i] = metrics.Values(ms)
				return res, err
			},
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting sweep", "law", law.String(), "jobs", len(jobs))
	outcomes, err := sweep.Runner{Workers: workers, Logger: slog.Default()}.Run(ctx, jobs)
	if err != nil {
		return err
	}

	names := metricNames(law)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "COUPLING\tSEED\tSTEPS\tELAPSED\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for i, o := range outcomes {
		fmt.Fprintf(w, "%g\t%d\t%d\t%v",
			o.Params["coupling"],
			int64(o.Params["seed"]),
			o.Result.StepsTaken,
			o.Elapsed.Round(time.Microsecond),
		)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", values[i][name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func metricNames(law network.Law) []string {
	var names []string
	for _, m := range metrics.Defaults(law) {
		names = append(names, m.Name())
	}
	return names
}
