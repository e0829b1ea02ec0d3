package dataset

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/samcharles93/npytool/pkg/npy"
)

func sampleArray() *npy.Array {
	return &npy.Array{Shape: [2]int{2, 3}, Values: []float64{1, 2, 3, 4, 5, 6}}
}

func TestFormatFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path, override string
		want           Format
	}{
		{"out.h5", "", FormatHDF5},
		{"out.HDF5", "", FormatHDF5},
		{"out.json", "", FormatJSON},
		{"out.mpk", "", FormatMsgpack},
		{"out.msgpack", "", FormatMsgpack},
		{"out.bin", "json", FormatJSON},
		{"out.json", "h5", FormatHDF5},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path, tt.override)
		if err != nil || got != tt.want {
			t.Errorf("FormatFor(%q, %q) = %q, %v", tt.path, tt.override, got, err)
		}
	}
	if _, err := FormatFor("out.bin", ""); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := FormatFor("out.h5", "csv"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestJSONStore(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.json")
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, err := Create(path, FormatJSON, Meta{RunID: "run-1", CreatedAt: created})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Put("w1", sampleArray()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	special := &npy.Array{Shape: [2]int{1, 3}, Values: []float64{math.NaN(), math.Inf(1), math.Inf(-1)}}
	if err := s.Put("special", special); err != nil {
		t.Fatalf("Put special: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.RunID != "run-1" || !doc.CreatedAt.Equal(created) {
		t.Fatalf("unexpected meta: %+v", doc)
	}
	if len(doc.Datasets) != 2 || doc.Datasets[0].Name != "w1" || doc.Datasets[0].Shape != [2]int{2, 3} {
		t.Fatalf("unexpected datasets: %+v", doc.Datasets)
	}
	if doc.Datasets[0].Values[5] != 6 {
		t.Fatalf("unexpected values: %v", doc.Datasets[0].Values)
	}
	sv := doc.Datasets[1].Values
	if !math.IsNaN(sv[0]) || !math.IsInf(sv[1], 1) || !math.IsInf(sv[2], -1) {
		t.Fatalf("non-finite values not preserved: %v", sv)
	}
}

func TestMsgpackStore(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.mpk")
	s, err := Create(path, FormatMsgpack, Meta{RunID: "run-2"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Put("bias", sampleArray()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc document
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.RunID != "run-2" || doc.CreatedAt.IsZero() {
		t.Fatalf("unexpected meta: %+v", doc)
	}
	if len(doc.Datasets) != 1 || doc.Datasets[0].Name != "bias" || len(doc.Datasets[0].Values) != 6 {
		t.Fatalf("unexpected datasets: %+v", doc.Datasets)
	}
}

func TestHDF5StoreWritesContainer(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.h5")
	s, err := Create(path, FormatHDF5, Meta{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Put("weights", sampleArray()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89HDF\r\n\x1a\n")) {
		t.Fatalf("missing HDF5 signature: % x", data[:min(8, len(data))])
	}
}

func TestStoreRejectsDuplicatesAndEmptyNames(t *testing.T) {
	t.Parallel()
	s, err := Create(filepath.Join(t.TempDir(), "out.json"), FormatJSON, Meta{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Put("a", sampleArray()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("a", sampleArray()); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if err := s.Put("", sampleArray()); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := s.Put("b", sampleArray()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestCreateFailsForMissingDirectory(t *testing.T) {
	t.Parallel()
	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.json"), FormatJSON, Meta{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFloatsMarshal(t *testing.T) {
	t.Parallel()
	got, err := Floats{1, 0.5, math.NaN(), math.Inf(-1)}.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(got) != `[1,0.5,"NaN","-Infinity"]` {
		t.Fatalf("got %s", got)
	}
	empty, _ := Floats{}.MarshalJSON()
	if string(empty) != "[]" {
		t.Fatalf("got %s", empty)
	}
}

func TestFloatsUnmarshalRejectsOtherTypes(t *testing.T) {
	t.Parallel()
	var f Floats
	if err := f.UnmarshalJSON([]byte(`[1,"NaN","-Infinity"]`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if len(f) != 3 || f[0] != 1 || !math.IsNaN(f[1]) || !math.IsInf(f[2], -1) {
		t.Fatalf("got %v", f)
	}
	for _, in := range []string{`[1,null]`, `[true]`, `[[1]]`, `[{"a":1}]`, `["abc"]`} {
		var g Floats
		if err := g.UnmarshalJSON([]byte(in)); err == nil {
			t.Errorf("UnmarshalJSON(%s) = %v, want error", in, g)
		}
	}
}
