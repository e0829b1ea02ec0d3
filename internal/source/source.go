// Package source resolves CLI input arguments to .npy streams.
//
// Inputs may be plain .npy files or gzip/zstd compressed copies
// (".npy.gz", ".npy.zst"); the decompressed bytes are handed to the decoder
// as a forward-only stream, which is all it needs.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is a stream encoding recognised on input.
type Compression string

const (
	None Compression = ""
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
)

// zstdMaxMemory caps the zstd window so a hostile frame cannot demand an
// arbitrary allocation.
const zstdMaxMemory = 1 << 30

var ErrNoMatch = errors.New("pattern matched no files")

// Expand turns CLI arguments into file paths. Arguments without glob
// metacharacters pass through untouched so a missing file still surfaces
// as a decode error in its original position. Patterns (including "**")
// expand in lexical order. Duplicates are dropped, first occurrence wins.
func Expand(args []string) ([]string, error) {
	seen := make(map[string]bool, len(args))
	var out []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}
	for _, arg := range args {
		if !hasMeta(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("expand %q: %w", arg, ErrNoMatch)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// CompressionFor infers the encoding from a file name.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// ParseEncoding maps an HTTP Content-Encoding value.
func ParseEncoding(v string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "identity":
		return None, nil
	case "gzip", "x-gzip":
		return Gzip, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, fmt.Errorf("unsupported encoding %q", v)
	}
}

// Open opens path and transparently decompresses it based on its name.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := Decompress(f, CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &stackCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
}

// Decompress wraps r according to c. Closing the result does not close r.
func Decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(r,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(zstdMaxMemory),
		)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

// DatasetName derives a dataset name from a source path: the base name
// with any compression suffix and then the last extension removed, so
// "data/weights.npy.gz" becomes "weights".
func DatasetName(path string) string {
	base := filepath.Base(path)
	if CompressionFor(base) != None {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

type stackCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
