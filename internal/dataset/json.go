package dataset

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/samcharles93/npytool/pkg/npy"
)

// Floats marshals to a JSON array. JSON has no literal for non-finite
// numbers, so NaN and the infinities are written as the strings "NaN",
// "Infinity" and "-Infinity".
type Floats []float64

func (f Floats) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+len(f)*8)
	buf = append(buf, '[')
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		switch {
		case math.IsNaN(v):
			buf = append(buf, `"NaN"`...)
		case math.IsInf(v, 1):
			buf = append(buf, `"Infinity"`...)
		case math.IsInf(v, -1):
			buf = append(buf, `"-Infinity"`...)
		default:
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
	}
	return append(buf, ']'), nil
}

func (f *Floats) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Floats, len(raw))
	for i, v := range raw {
		switch x := v.(type) {
		case float64:
			out[i] = x
		case string:
			n, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return err
			}
			out[i] = n
		default:
			return fmt.Errorf("dataset: element %d: want number or string, got %v", i, v)
		}
	}
	*f = out
	return nil
}

type jsonStore struct {
	f   *os.File
	doc document
}

func createJSON(path string, meta Meta) (*jsonStore, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &jsonStore{
		f:   f,
		doc: document{RunID: meta.RunID, CreatedAt: meta.CreatedAt, Datasets: []entry{}},
	}, nil
}

func (s *jsonStore) Put(name string, arr *npy.Array) error {
	s.doc.Datasets = append(s.doc.Datasets, entry{Name: name, Shape: arr.Shape, Values: Floats(arr.Values)})
	return nil
}

func (s *jsonStore) Close() error {
	w := bufio.NewWriter(s.f)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.doc); err != nil {
		_ = s.f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}
