package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/netdyn/internal/viz"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestBuildConfigFlags(t *testing.T) {
	cmd := newTestCmd(t, "--nodes", "4", "--coupling", "2.5", "--archetype", "fixed_density", "--stop", "5")
	cfg, err := buildConfig(cmd, []string{"kuramoto1"})
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Model != "kuramoto1" || cfg.Nodes != 4 || cfg.Coupling != 2.5 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Graph.Archetype != "fixed_density" || cfg.Time.Stop != 5 {
		t.Errorf("graph or time flags not applied: %+v", cfg)
	}
	if cfg.Integrator != "rk4" {
		t.Errorf("unset flag overrode default integrator: %q", cfg.Integrator)
	}
}

func TestBuildConfigPreset(t *testing.T) {
	cmd := newTestCmd(t, "--preset", "sync", "--seed", "7")
	cfg, err := buildConfig(cmd, []string{"kuramoto1"})
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Coupling != 2 || cfg.Seed != 7 {
		t.Errorf("expected preset coupling and flag seed, got %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("seed: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cmd = newTestCmd(t, "--preset", "sync", "--config", path)
	cfg, err = buildConfig(cmd, []string{"kuramoto1"})
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Coupling != 2 || cfg.Seed != 3 {
		t.Errorf("expected preset coupling under file seed, got coupling=%v seed=%d", cfg.Coupling, cfg.Seed)
	}

	cmd = newTestCmd(t, "--preset", "missing")
	if _, err := buildConfig(cmd, []string{"kuramoto1"}); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestBuildConfigInvalid(t *testing.T) {
	cmd := newTestCmd(t)
	if _, err := buildConfig(cmd, []string{"michaelis-menten"}); err == nil {
		t.Error("expected error for hyphenated law name")
	}
}

func TestParsePalette(t *testing.T) {
	for _, name := range []string{"auto", "binary", "ternary", "continuous"} {
		p, err := parsePalette(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.String() != name {
			t.Errorf("got %s, want %s", p, name)
		}
	}
	if p, err := parsePalette("rainbow"); err == nil || p != viz.PaletteAuto {
		t.Error("expected error for unknown palette")
	}
}

func TestLoadAdjacencyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adj.txt")
	if err := os.WriteFile(path, []byte("0 1\n1 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := loadAdjacency(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Rows != 2 || m.At(0, 1) != 1 {
		t.Errorf("unexpected matrix %v", m.ToRows())
	}

	dataDir = t.TempDir()
	if _, err := loadAdjacency("no_such_run"); err == nil {
		t.Error("expected error for unknown run")
	}
}
