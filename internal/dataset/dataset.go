// Package dataset writes decoded arrays into a named dataset container.
//
// A Store receives one array per source file under a unique name and
// commits everything on Close. The container format is picked from the
// output path's extension unless the caller names one explicitly.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samcharles93/npytool/pkg/npy"
)

var (
	ErrDuplicateName = errors.New("dataset: duplicate dataset name")
	ErrEmptyName     = errors.New("dataset: empty dataset name")
	ErrClosed        = errors.New("dataset: store is closed")
	ErrUnknownFormat = errors.New("dataset: unknown output format")
)

type Format string

const (
	FormatHDF5    Format = "hdf5"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// Store is a named dataset sink.
type Store interface {
	Put(name string, arr *npy.Array) error
	Close() error
}

// Meta is recorded alongside the datasets by formats that can hold it.
type Meta struct {
	RunID     string
	CreatedAt time.Time
}

// FormatFor resolves the output format. An explicit override wins;
// otherwise the extension of path decides.
func FormatFor(path, override string) (Format, error) {
	if override != "" {
		switch f := Format(strings.ToLower(override)); f {
		case FormatHDF5, FormatJSON, FormatMsgpack:
			return f, nil
		case "h5":
			return FormatHDF5, nil
		case "mpk":
			return FormatMsgpack, nil
		default:
			return "", fmt.Errorf("%w: %q", ErrUnknownFormat, override)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h5", ".hdf5", ".he5":
		return FormatHDF5, nil
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: cannot infer from %q", ErrUnknownFormat, path)
	}
}

// Create opens a new store at path, truncating any existing file.
func Create(path string, format Format, meta Meta) (Store, error) {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	var (
		s   Store
		err error
	)
	switch format {
	case FormatHDF5:
		s, err = createHDF5(path, meta)
	case FormatJSON:
		s, err = createJSON(path, meta)
	case FormatMsgpack:
		s, err = createMsgpack(path, meta)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &guarded{inner: s, names: make(map[string]struct{})}, nil
}

// guarded enforces name rules common to every format.
type guarded struct {
	mu     sync.Mutex
	inner  Store
	names  map[string]struct{}
	closed bool
}

func (g *guarded) Put(name string, arr *npy.Array) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	if name == "" {
		return ErrEmptyName
	}
	if arr == nil {
		return fmt.Errorf("dataset %s: nil array", name)
	}
	if _, dup := g.names[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if err := g.inner.Put(name, arr); err != nil {
		return fmt.Errorf("dataset %s: %w", name, err)
	}
	g.names[name] = struct{}{}
	return nil
}

func (g *guarded) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	return g.inner.Close()
}

// entry is the serialised form used by the JSON and msgpack stores.
type entry struct {
	Name   string `json:"name" msgpack:"name"`
	Shape  [2]int `json:"shape" msgpack:"shape"`
	Values Floats `json:"values" msgpack:"values"`
}

type document struct {
	RunID     string    `json:"run_id" msgpack:"run_id"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
	Datasets  []entry   `json:"datasets" msgpack:"datasets"`
}
