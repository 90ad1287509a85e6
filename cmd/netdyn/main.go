package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/netdyn/internal/config"
	"github.com/san-kum/netdyn/internal/experiment"
	"github.com/san-kum/netdyn/internal/logging"
	"github.com/san-kum/netdyn/internal/metrics"
	"github.com/san-kum/netdyn/internal/network"
	"github.com/san-kum/netdyn/internal/sim"
	"github.com/san-kum/netdyn/internal/storage"
	"github.com/san-kum/netdyn/internal/viz"
)

const catalogFile = "catalog.db"

var (
	dataDir  string
	logLevel string
	noColor  bool

	configFile string
	preset     string

	nodes       int
	seed        int64
	coupling    float64
	noiseLevel  float64
	integrator  string
	maxStep     float64
	tolerance   float64
	timeStart   float64
	timeStop    float64
	timeStep    float64
	archetype   string
	sparsity    float64
	graphFile   string
	strictRank  bool
	initialFile string
	paramsFile  string

	showPlot  bool
	listModel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "netdyn",
		Short:         "networked dynamical systems simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := logging.Setup(logLevel, noColor)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".netdyn", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured log output")

	runCmd := &cobra.Command{
		Use:   "run [law]",
		Short: "run a simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the trajectory after the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&listModel, "law", "", "only list runs of this law")

	presetsCmd := &cobra.Command{
		Use:   "presets [law]",
		Short: "list available presets for a law",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for law: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	lawsCmd := &cobra.Command{
		Use:   "laws",
		Short: "list coupling laws, archetypes and integrators",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			fmt.Printf("laws:        %s\n", strings.Join(reg.ListModels(), ", "))
			fmt.Printf("archetypes:  %s\n", strings.Join(reg.ListArchetypes(), ", "))
			fmt.Printf("integrators: %s\n", strings.Join(reg.ListIntegrators(), ", "))
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [law]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, presetsCmd, lawsCmd, liveCmd,
		newGraphCmd(), newPlotCmd(), newHeatmapCmd(),
		newExportCSVCmd(), newExportJSONCmd(), newExportSVGCmd(),
		newSweepCmd(), newLyapunovCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&nodes, "nodes", network.DefaultNodes, "number of nodes")
	f.Int64Var(&seed, "seed", 0, "random seed")
	f.Float64Var(&coupling, "coupling", config.DefaultCoupling, "scale applied to the adjacency matrix")
	f.Float64Var(&noiseLevel, "noise", 0, "noise level")
	f.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	f.Float64Var(&maxStep, "max-step", config.DefaultMaxStep, "maximum integrator step")
	f.Float64Var(&tolerance, "tol", 0, "local error tolerance (enables adaptive stepping)")
	f.Float64Var(&timeStart, "start", 0, "first output time")
	f.Float64Var(&timeStop, "stop", config.DefaultStop, "output grid end (exclusive)")
	f.Float64Var(&timeStep, "step", config.DefaultTimeStep, "output grid spacing")
	f.StringVar(&archetype, "archetype", "fully_connected", "graph archetype")
	f.Float64Var(&sparsity, "sparsity", config.DefaultSparsity, "fraction of zero adjacency entries")
	f.StringVar(&graphFile, "graph", "", "adjacency matrix file")
	f.BoolVar(&strictRank, "strict-rank", false, "redraw sparse graphs until full rank")
	f.StringVar(&initialFile, "initial", "", "initial values file")
	f.StringVar(&paramsFile, "params", "", "node parameters file")
}

// buildConfig layers defaults, preset, config file and explicitly set flags,
// in that order. A law argument overrides the model of a preset or file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	law := cfg.Model
	if len(args) > 0 {
		law = args[0]
	}

	if preset != "" {
		p := config.GetPreset(law, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(law))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Model = args[0]
	}

	f := cmd.Flags()
	if f.Changed("nodes") {
		cfg.Nodes = nodes
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("coupling") {
		cfg.Coupling = coupling
	}
	if f.Changed("noise") {
		cfg.NoiseLevel = noiseLevel
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("max-step") {
		cfg.MaxStep = maxStep
	}
	if f.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if f.Changed("start") {
		cfg.Time.Start = timeStart
	}
	if f.Changed("stop") {
		cfg.Time.Stop = timeStop
	}
	if f.Changed("step") {
		cfg.Time.Step = timeStep
	}
	if f.Changed("archetype") {
		cfg.Graph.Archetype = archetype
	}
	if f.Changed("sparsity") {
		cfg.Graph.Sparsity = sparsity
	}
	if f.Changed("graph") {
		cfg.Graph.File = graphFile
	}
	if f.Changed("strict-rank") {
		cfg.Graph.StrictRank = strictRank
	}
	if f.Changed("initial") {
		cfg.InitialValues.File = initialFile
	}
	if f.Changed("params") {
		cfg.NodeParameters.File = paramsFile
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	law, err := network.ParseLaw(cfg.Model)
	if err != nil {
		return err
	}
	ms := metrics.Defaults(law)
	var opts []sim.Option
	for _, o := range metrics.Collect(ms) {
		opts = append(opts, sim.WithObserver(o))
	}

	exp, err := experiment.Build(cfg, experiment.NewRegistry(), opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("running simulation", "law", cfg.Model, "nodes", exp.Model().NumNodes(), "points", len(exp.Grid()))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	meta := metadataFor(cfg, exp)
	runID, err := st.Save(meta, result, exp.Model().Adjacency())
	if err != nil {
		return err
	}
	meta, err = loadMeta(st, runID)
	if err != nil {
		return err
	}
	if err := recordRun(ctx, meta); err != nil {
		slog.Warn("catalog update failed", "run_id", runID, "err", err)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("points: %d\n", len(result.States))
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Printf("  %s: %.6f\n", m.Name(), m.Value())
	}

	if showPlot {
		chart, err := viz.TimeSeries(result.Times, result.Trajectory(), viz.TimeSeriesOptions{
			Law:      exp.Model().Law(),
			Height:   12,
			Width:    80,
			MaxNodes: 8,
			Title:    runID,
		})
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(chart)
	}
	return nil
}

func metadataFor(cfg *config.Config, exp *experiment.Experiment) storage.RunMetadata {
	arch := cfg.Graph.Archetype
	if cfg.Graph.File != "" {
		arch = filepath.Base(cfg.Graph.File)
	}
	return storage.RunMetadata{
		Model:      cfg.Model,
		Seed:       cfg.Seed,
		Nodes:      exp.Model().NumNodes(),
		Archetype:  arch,
		Integrator: cfg.Integrator,
		Coupling:   cfg.Coupling,
		NoiseLevel: cfg.NoiseLevel,
		MaxStep:    cfg.MaxStep,
		TimeStart:  cfg.Time.Start,
		TimeStop:   cfg.Time.Stop,
		TimeStep:   cfg.Time.Step,
	}
}

func loadMeta(st *storage.Store, runID string) (storage.RunMetadata, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return storage.RunMetadata{}, err
	}
	return *meta, nil
}

func openCatalog(ctx context.Context) (*storage.Catalog, error) {
	return storage.OpenCatalog(ctx, filepath.Join(dataDir, catalogFile))
}

func recordRun(ctx context.Context, meta storage.RunMetadata) error {
	cat, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer cat.Close()
	return cat.Record(ctx, meta)
}

// listRuns reads the catalog and falls back to scanning run directories
// when the catalog is unavailable.
func listRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var runs []storage.RunMetadata
	cat, err := openCatalog(ctx)
	if err == nil {
		runs, err = cat.List(ctx, listModel)
		cat.Close()
	}
	if err != nil || len(runs) == 0 {
		if err != nil {
			slog.Debug("catalog unavailable, scanning run directories", "err", err)
		}
		all, err := storage.New(dataDir).List()
		if err != nil {
			return err
		}
		runs = runs[:0]
		for _, r := range all {
			if listModel == "" || r.Model == listModel {
				runs = append(runs, r)
			}
		}
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLAW\tTIME\tNODES\tGRAPH\tINTEG\tSEED\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Archetype,
			run.Integrator,
			run.Seed,
			run.Steps,
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	exp, err := experiment.Build(cfg, reg)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	model := exp.Model()
	return viz.RunLive(viz.LiveConfig{
		Title:      fmt.Sprintf("%s, %d nodes", model.Law(), model.NumNodes()),
		Law:        model.Law(),
		System:     model.System(exp.Omega()),
		Integrator: integ,
		Initial:    model.InitialValues(),
		Start:      cfg.Time.Start,
		Stop:       cfg.Time.Stop,
		Dt:         cfg.MaxStep,
	})
}
