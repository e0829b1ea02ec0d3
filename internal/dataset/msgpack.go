package dataset

import (
	"bufio"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/samcharles93/npytool/pkg/npy"
)

type msgpackStore struct {
	f   *os.File
	doc document
}

func createMsgpack(path string, meta Meta) (*msgpackStore, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &msgpackStore{
		f:   f,
		doc: document{RunID: meta.RunID, CreatedAt: meta.CreatedAt, Datasets: []entry{}},
	}, nil
}

func (s *msgpackStore) Put(name string, arr *npy.Array) error {
	s.doc.Datasets = append(s.doc.Datasets, entry{Name: name, Shape: arr.Shape, Values: Floats(arr.Values)})
	return nil
}

func (s *msgpackStore) Close() error {
	w := bufio.NewWriter(s.f)
	if err := msgpack.NewEncoder(w).Encode(&s.doc); err != nil {
		_ = s.f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}
