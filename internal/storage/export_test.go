package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/san-kum/netdyn/internal/dynamo"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []float64{0, 0.5}, [][]float64{{1, 2}, {3, 4.25}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	want := "time,x0,x1\n0,1,2\n0.5,3,4.25\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	if err := WriteCSV(&buf, []float64{0}, nil); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	adj, _ := dynamo.FromRows([][]float64{{0, 1}, {0, 0}})
	runID, err := st.Save(RunMetadata{Model: "kuramoto1", Nodes: 2}, testResult(), adj)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export json: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Run.ID != runID || len(data.States) != 2 || len(data.Adjacency) != 2 {
		t.Errorf("unexpected export %+v", data)
	}

	buf.Reset()
	if err := st.ExportCSV(&buf, runID); err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("time,x0,x1\n")) {
		t.Errorf("unexpected csv %q", buf.String())
	}

	if err := st.ExportCSV(&buf, "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}
