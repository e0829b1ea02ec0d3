package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/npytool/internal/npytest"
	"github.com/samcharles93/npytool/pkg/npy"
)

func TestRunKeepsInputOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var inputs []string
	for i := range 12 {
		data := npytest.RowMajor(i+1, 2, make([]float32, (i+1)*2)...)
		inputs = append(inputs, npytest.WriteFile(t, dir, fmt.Sprintf("a%02d.npy", i), data))
	}

	results, err := Run(context.Background(), Options{Inputs: inputs, Workers: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Path != inputs[i] {
			t.Fatalf("result %d path %q, want %q", i, r.Path, inputs[i])
		}
		if r.Err != nil {
			t.Fatalf("result %d: %v", i, r.Err)
		}
		if got := r.Header.Format.Shape; got != [2]int{i + 1, 2} {
			t.Fatalf("result %d shape %v", i, got)
		}
		if r.Size == 0 {
			t.Fatalf("result %d missing size", i)
		}
	}
	if Failed(results) != 0 {
		t.Fatal("expected no failures")
	}
}

func TestRunReportsPerFileErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	good := npytest.WriteFile(t, dir, "good.npy", npytest.RowMajor(1, 1, 1))
	bad := npytest.WriteFile(t, dir, "bad.npy", []byte("\x93NUMPY\x03\x00"))
	missing := filepath.Join(dir, "missing.npy")

	results, err := Run(context.Background(), Options{Inputs: []string{bad, good, missing}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if Failed(results) != 2 {
		t.Fatalf("expected two failures, got %d", Failed(results))
	}
	if results[0].Kind() != npy.ErrUnsupportedVersion || results[0].ErrorText == "" {
		t.Fatalf("unexpected result for bad file: %+v", results[0])
	}
	if results[1].Header == nil || results[1].Kind() != nil {
		t.Fatalf("unexpected result for good file: %+v", results[1])
	}
	if !errors.Is(results[2].Kind(), os.ErrNotExist) {
		t.Fatalf("unexpected result for missing file: %+v", results[2])
	}
}

func TestRunDoesNotRequireFloat32(t *testing.T) {
	t.Parallel()
	dict := "{'descr': '>i4', 'fortran_order': True, 'shape': (3,), }"
	p := npytest.WriteFile(t, t.TempDir(), "ints.npy", npytest.Build(1, dict, nil))

	results, err := Run(context.Background(), Options{Inputs: []string{p}, Workers: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	f := results[0].Header.Format
	if f.Type != npy.Int32 || f.Endian != npy.BigEndian || f.Order != npy.ColumnMajor || f.Shape != [2]int{1, 3} {
		t.Fatalf("unexpected format %+v", f)
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Inputs: []string{"a.npy"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
