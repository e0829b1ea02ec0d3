// Package export drives decoding of a list of .npy files into a dataset
// store. Files are processed in order and the run stops at the first
// failure; nothing after the failing file is opened.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/npytool/internal/dataset"
	"github.com/samcharles93/npytool/internal/logger"
	"github.com/samcharles93/npytool/internal/source"
	"github.com/samcharles93/npytool/pkg/npy"
)

// Sink receives decoded arrays. dataset.Store satisfies it.
type Sink interface {
	Put(name string, arr *npy.Array) error
}

type Options struct {
	Inputs  []string
	Decoder npy.Decoder
	// Sink may be nil, in which case files are only decoded.
	Sink  Sink
	RunID string
}

type FileResult struct {
	Path     string        `json:"path"`
	Dataset  string        `json:"dataset"`
	Shape    [2]int        `json:"shape"`
	Min      float64       `json:"min"`
	Max      float64       `json:"max"`
	Mean     float64       `json:"mean"`
	Duration time.Duration `json:"duration"`
}

type Report struct {
	RunID string       `json:"run_id"`
	Files []FileResult `json:"files"`
	// Skipped lists inputs that were never opened because an earlier one failed.
	Skipped []string `json:"skipped,omitempty"`
}

// FileError reports which input stopped the run.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// NewRunID returns a fresh identifier for an export run.
func NewRunID() string {
	return uuid.NewString()
}

// Run decodes every input in order and forwards each array to the sink.
// The returned report covers the files completed before any error.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.RunID == "" {
		opts.RunID = NewRunID()
	}
	log := logger.FromContext(ctx).With("run", opts.RunID)
	rep := &Report{RunID: opts.RunID, Files: make([]FileResult, 0, len(opts.Inputs))}

	for i, path := range opts.Inputs {
		if err := ctx.Err(); err != nil {
			rep.Skipped = append(rep.Skipped, opts.Inputs[i:]...)
			return rep, err
		}
		res, err := exportOne(opts, path)
		if err != nil {
			rep.Skipped = append(rep.Skipped, opts.Inputs[i+1:]...)
			log.Error("decode failed", "file", path, "err", err, "skipped", len(rep.Skipped))
			return rep, &FileError{Path: path, Err: err}
		}
		log.Info("decoded",
			"file", path,
			"dataset", res.Dataset,
			"rows", res.Shape[0],
			"cols", res.Shape[1],
			"duration", res.Duration,
		)
		rep.Files = append(rep.Files, res)
	}
	return rep, nil
}

func exportOne(opts Options, path string) (FileResult, error) {
	start := time.Now()
	rc, err := source.Open(path)
	if err != nil {
		return FileResult{}, err
	}
	arr, err := opts.Decoder.DecodeReader(rc)
	closeErr := rc.Close()
	if err != nil {
		return FileResult{}, err
	}
	if closeErr != nil {
		return FileResult{}, closeErr
	}

	name := source.DatasetName(path)
	if opts.Sink != nil {
		if err := opts.Sink.Put(name, arr); err != nil {
			return FileResult{}, err
		}
	}

	res := FileResult{
		Path:     path,
		Dataset:  name,
		Shape:    arr.Shape,
		Duration: time.Since(start),
	}
	res.Min, res.Max, res.Mean = summarize(arr.Values)
	return res, nil
}

func summarize(values []float64) (lo, hi, mean float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	lo, hi = values[0], values[0]
	var sum float64
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += v
	}
	return lo, hi, sum / float64(len(values))
}

// Ensure dataset stores can be used as sinks.
var _ Sink = dataset.Store(nil)
