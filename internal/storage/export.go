package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ExportData is the JSON form of a stored run.
type ExportData struct {
	Run       RunMetadata `json:"run"`
	Times     []float64   `json:"times"`
	States    [][]float64 `json:"states"`
	Adjacency [][]float64 `json:"adjacency,omitempty"`
}

// WriteCSV writes a "time,x0,x1,..." header followed by one row per state.
func WriteCSV(w io.Writer, times []float64, states [][]float64) error {
	if len(times) != len(states) {
		return fmt.Errorf("%d times for %d states", len(times), len(states))
	}

	cw := csv.NewWriter(w)
	if len(states) > 0 {
		header := []string{"time"}
		for i := range states[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for i, state := range states {
		row := make([]string, 0, len(state)+1)
		row = append(row, strconv.FormatFloat(times[i], 'g', -1, 64))
		for _, val := range state {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportJSON writes a stored run, including its adjacency when present.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Times: times, States: states}
	if adj, err := s.LoadAdjacency(runID); err == nil {
		data.Adjacency = adj.ToRows()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a stored run's states.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("%s: no data to export", runID)
	}
	return WriteCSV(w, times, states)
}
