// Package storage persists simulation runs. Each run gets a directory with
// metadata.json, states.csv and adjacency.txt; a SQLite catalog indexes runs
// for listing.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/netdyn/internal/dataio"
	"github.com/san-kum/netdyn/internal/dynamo"
)

const (
	metadataFile  = "metadata.json"
	statesFile    = "states.csv"
	adjacencyFile = "adjacency.txt"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunDir is the directory holding a run's files.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Timestamp  time.Time `json:"timestamp"`
	Seed       int64     `json:"seed"`
	Nodes      int       `json:"nodes"`
	Archetype  string    `json:"archetype"`
	Integrator string    `json:"integrator"`
	Coupling   float64   `json:"coupling"`
	NoiseLevel float64   `json:"noise_level"`
	MaxStep    float64   `json:"max_step"`
	TimeStart  float64   `json:"time_start"`
	TimeStop   float64   `json:"time_stop"`
	TimeStep   float64   `json:"time_step"`
	Points     int       `json:"points"`
	Steps      int       `json:"steps"`
}

// NewRunID returns "<model>_<first 8 hex digits of a random UUID>".
func NewRunID(model string) string {
	return fmt.Sprintf("%s_%s", model, uuid.NewString()[:8])
}

// Save writes a run and returns its ID. ID and Timestamp are filled in when
// empty; Points and Steps always come from result. adj may be nil.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result, adj *dynamo.Matrix) (string, error) {
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Model)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Points = len(result.States)
	meta.Steps = result.StepsTaken

	runDir := s.RunDir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeRun(runDir, meta, result, adj); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			return "", errors.Join(err, rmErr)
		}
		return "", fmt.Errorf("save %s: %w", meta.ID, err)
	}
	return meta.ID, nil
}

func writeRun(runDir string, meta RunMetadata, result *dynamo.Result, adj *dynamo.Matrix) error {
	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return err
	}
	if adj != nil {
		return dataio.SaveMatrix(filepath.Join(runDir, adjacencyFile), adj)
	}
	return nil
}

// writeFile creates path, fills it with write and reports the first error,
// including the one from Close.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func writeMetadata(path string, meta RunMetadata) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
}

func writeStates(path string, result *dynamo.Result) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteCSV(w, result.Times, result.Trajectory())
	})
}

// List reads the metadata of every run directory. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}

	return &meta, nil
}

// LoadStates returns the states and their times.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.RunDir(runID), statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: row %d: %w", statesFile, i, err)
		}
		times = append(times, t)

		state := make([]float64, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: row %d: %w", statesFile, i, err)
			}
			state[j-1] = val
		}
		states = append(states, state)
	}

	return states, times, nil
}

func (s *Store) LoadAdjacency(runID string) (*dynamo.Matrix, error) {
	return dataio.LoadMatrix(filepath.Join(s.RunDir(runID), adjacencyFile))
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	if _, err := os.Stat(filepath.Join(s.RunDir(runID), metadataFile)); err != nil {
		return err
	}
	return os.RemoveAll(s.RunDir(runID))
}
