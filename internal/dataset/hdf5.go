package dataset

import (
	"fmt"

	"github.com/scigolib/hdf5"

	"github.com/samcharles93/npytool/pkg/npy"
)

// hdf5Store writes each array as a 2-D float64 dataset at "/<name>".
type hdf5Store struct {
	fw *hdf5.FileWriter
}

func createHDF5(path string, _ Meta) (*hdf5Store, error) {
	fw, err := hdf5.CreateForWrite(path, hdf5.CreateTruncate)
	if err != nil {
		return nil, fmt.Errorf("create hdf5 file: %w", err)
	}
	return &hdf5Store{fw: fw}, nil
}

func (s *hdf5Store) Put(name string, arr *npy.Array) error {
	dims := []uint64{uint64(arr.Shape[0]), uint64(arr.Shape[1])}
	ds, err := s.fw.CreateDataset("/"+name, hdf5.Float64, dims)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	if err := ds.Write(arr.Values); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

func (s *hdf5Store) Close() error {
	return s.fw.Close()
}
