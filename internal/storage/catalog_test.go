package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	cat, err := OpenCatalog(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = cat.Close()
	})

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []RunMetadata{
		{ID: "kuramoto1_aaaaaaaa", Model: "kuramoto1", Timestamp: base, Seed: 1, Nodes: 10, Archetype: "fully_connected", Integrator: "rk4", Coupling: 1, MaxStep: 0.01, TimeStop: 100, TimeStep: 1, Points: 100, Steps: 9900},
		{ID: "roessler_bbbbbbbb", Model: "roessler", Timestamp: base.Add(time.Hour), Seed: 2, Nodes: 5, Archetype: "fully_nested", Integrator: "rk45"},
	}
	for _, r := range runs {
		if err := cat.Record(ctx, r); err != nil {
			t.Fatalf("record %s: %v", r.ID, err)
		}
	}

	got, ok, err := cat.Get(ctx, "kuramoto1_aaaaaaaa")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected run to be found")
	}
	if got.Steps != 9900 || got.Archetype != "fully_connected" || !got.Timestamp.Equal(base) {
		t.Errorf("unexpected run %+v", got)
	}

	_, ok, err = cat.Get(ctx, "missing")
	if err != nil || ok {
		t.Errorf("expected not found, got ok=%v err=%v", ok, err)
	}

	all, err := cat.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != "roessler_bbbbbbbb" {
		t.Errorf("expected newest first, got %+v", all)
	}

	only, err := cat.List(ctx, "kuramoto1")
	if err != nil {
		t.Fatalf("list by model: %v", err)
	}
	if len(only) != 1 || only[0].Model != "kuramoto1" {
		t.Errorf("unexpected filtered list %+v", only)
	}
}

func TestCatalogUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	cat, err := OpenCatalog(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer cat.Close()

	meta := RunMetadata{ID: "x", Model: "kuramoto2", Timestamp: time.Now(), Steps: 1}
	if err := cat.Record(ctx, meta); err != nil {
		t.Fatal(err)
	}
	meta.Steps = 7
	if err := cat.Record(ctx, meta); err != nil {
		t.Fatal(err)
	}

	got, _, err := cat.Get(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Steps != 7 {
		t.Errorf("expected upsert to update steps, got %d", got.Steps)
	}

	if err := cat.Delete(ctx, "x"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cat.Get(ctx, "x"); ok {
		t.Error("expected run to be deleted")
	}
}

func TestCatalogClosed(t *testing.T) {
	ctx := context.Background()
	cat, err := OpenCatalog(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cat.Close(); err != nil {
		t.Fatal(err)
	}
	if err := cat.Record(ctx, RunMetadata{ID: "y"}); err == nil {
		t.Error("expected error on closed catalog")
	}
	if _, err := OpenCatalog(ctx, ""); err == nil {
		t.Error("expected error for empty path")
	}
}
