// Package inspect reads .npy headers from many files concurrently without
// touching their payloads.
package inspect

import (
	"context"
	"errors"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/npytool/internal/logger"
	"github.com/samcharles93/npytool/internal/source"
	"github.com/samcharles93/npytool/pkg/npy"
)

type Options struct {
	Inputs  []string
	Decoder npy.Decoder
	// Workers bounds the number of files open at once. Zero means GOMAXPROCS.
	Workers int
}

// Result is the outcome for one input. Exactly one of Header and Err is set.
type Result struct {
	Path      string      `json:"path"`
	Size      int64       `json:"size,omitempty"`
	Header    *npy.Header `json:"header,omitempty"`
	Err       error       `json:"-"`
	ErrorText string      `json:"error,omitempty"`
}

// Run inspects every input and returns results in input order. A failing
// file does not stop the others; only context cancellation aborts the run.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := logger.FromContext(ctx)
	results := make([]Result, len(opts.Inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range opts.Inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := inspectOne(opts.Decoder, path)
			if res.Err != nil {
				log.Debug("inspect failed", "file", path, "err", res.Err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func inspectOne(dec npy.Decoder, path string) Result {
	res := Result{Path: path}
	if fi, err := os.Stat(path); err == nil {
		res.Size = fi.Size()
	}
	rc, err := source.Open(path)
	if err != nil {
		return res.fail(err)
	}
	h, err := dec.ReadHeader(rc)
	closeErr := rc.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return res.fail(err)
	}
	res.Header = h
	return res
}

func (r Result) fail(err error) Result {
	r.Err = err
	r.ErrorText = err.Error()
	return r
}

// Kind returns the npy error kind for a failed result, or nil.
func (r Result) Kind() error {
	if r.Err == nil {
		return nil
	}
	if k := npy.KindOf(r.Err); k != nil {
		return k
	}
	if errors.Is(r.Err, os.ErrNotExist) {
		return os.ErrNotExist
	}
	return nil
}
