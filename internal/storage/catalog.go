package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Catalog indexes run metadata in SQLite so runs can be listed without
// walking the run directories.
type Catalog struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// OpenCatalog opens (creating if needed) the catalog database at path.
func OpenCatalog(ctx context.Context, path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return errors.New("catalog path is required")
	}
	if c.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	c.db = db
	return nil
}

// Record inserts or replaces the catalog entry for meta.ID.
func (c *Catalog) Record(ctx context.Context, meta RunMetadata) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, model, created_at, seed, nodes, archetype, integrator, coupling, noise_level, max_step, time_start, time_stop, time_step, points, steps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			model = excluded.model,
			created_at = excluded.created_at,
			seed = excluded.seed,
			nodes = excluded.nodes,
			archetype = excluded.archetype,
			integrator = excluded.integrator,
			coupling = excluded.coupling,
			noise_level = excluded.noise_level,
			max_step = excluded.max_step,
			time_start = excluded.time_start,
			time_stop = excluded.time_stop,
			time_step = excluded.time_step,
			points = excluded.points,
			steps = excluded.steps
	`, meta.ID, meta.Model, meta.Timestamp.UTC().Format(time.RFC3339Nano), meta.Seed, meta.Nodes,
		meta.Archetype, meta.Integrator, meta.Coupling, meta.NoiseLevel, meta.MaxStep,
		meta.TimeStart, meta.TimeStop, meta.TimeStep, meta.Points, meta.Steps)
	return err
}

func (c *Catalog) Get(ctx context.Context, id string) (RunMetadata, bool, error) {
	db, err := c.getDB()
	if err != nil {
		return RunMetadata{}, false, err
	}

	row := db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)
	meta, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunMetadata{}, false, nil
		}
		return RunMetadata{}, false, err
	}
	return meta, true, nil
}

// List returns runs newest first. An empty model matches every law.
func (c *Catalog) List(ctx context.Context, model string) ([]RunMetadata, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectRuns+` WHERE ? = '' OR model = ? ORDER BY created_at DESC, id`, model, model)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Catalog) getDB() (*sql.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, errors.New("catalog is not initialized")
	}
	return c.db, nil
}

const selectRuns = `SELECT id, model, created_at, seed, nodes, archetype, integrator, coupling, noise_level, max_step, time_start, time_stop, time_step, points, steps FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunMetadata, error) {
	var (
		meta    RunMetadata
		created string
	)
	err := s.Scan(&meta.ID, &meta.Model, &created, &meta.Seed, &meta.Nodes, &meta.Archetype,
		&meta.Integrator, &meta.Coupling, &meta.NoiseLevel, &meta.MaxStep,
		&meta.TimeStart, &meta.TimeStop, &meta.TimeStep, &meta.Points, &meta.Steps)
	if err != nil {
		return RunMetadata{}, err
	}
	meta.Timestamp, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return RunMetadata{}, err
	}
	return meta, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			created_at TEXT NOT NULL,
			seed INTEGER NOT NULL,
			nodes INTEGER NOT NULL,
			archetype TEXT NOT NULL,
			integrator TEXT NOT NULL,
			coupling REAL NOT NULL,
			noise_level REAL NOT NULL,
			max_step REAL NOT NULL,
			time_start REAL NOT NULL,
			time_stop REAL NOT NULL,
			time_step REAL NOT NULL,
			points INTEGER NOT NULL,
			steps INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_model ON runs (model);
	`)
	return err
}
