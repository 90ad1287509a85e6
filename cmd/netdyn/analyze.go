package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/netdyn/internal/analysis"
	"github.com/san-kum/netdyn/internal/experiment"
)

var perturbation float64

func newLyapunovCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyapunov [law]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLyapunov,
	}
	addConfigFlags(cmd)
	cmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial separation")
	return cmd
}

func runLyapunov(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	model := exp.Model()
	lambda, err := analysis.LyapunovExponent(ctx, model.System(exp.Omega()), integ,
		model.InitialValues(), cfg.MaxStep, cfg.Time.Stop-cfg.Time.Start, perturbation)
	if err != nil {
		return err
	}

	verdict := "regular"
	if lambda > 1e-3 {
		verdict = "chaotic"
	}
	fmt.Printf("law: %s\n", model.Law())
	fmt.Printf("nodes: %d\n", model.NumNodes())
	fmt.Printf("lambda: %.6f (%s)\n", lambda, verdict)
	return nil
}
