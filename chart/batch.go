package chart

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Result is the outcome of rendering one descriptor in a batch.
type Result struct {
	Descriptor Descriptor
	Path       string
	Err        error
}

// BatchOption configures RenderAll.
type BatchOption func(*batch)

type batch struct {
	workers int
	logger  *slog.Logger
}

// WithWorkers caps the number of charts rendered in parallel. Values <= 0 use GOMAXPROCS.
func WithWorkers(n int) BatchOption {
	return func(b *batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithBatchLogger sets the logger used to report each rendered chart.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *batch) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// RenderAll renders every descriptor to dir in parallel on a worker pool.
// Results keep the order of descs; one failing chart does not stop the others.
//
// Parameters:
//   - descs: the descriptors to render
//   - theme: the shared theme
//   - dir: the output directory
//   - options: BatchOption values
//
// Returns:
//   - []Result: one result per descriptor
//   - error: the joined errors of every failed chart, or nil
func RenderAll(descs []Descriptor, theme Theme, dir string, options ...BatchOption) ([]Result, error) {
	b := &batch{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(b)
	}

	results := make([]Result, len(descs))
	if len(descs) == 0 {
		return results, nil
	}

	pool := worker.NewDynamicWorkerPool(min(b.workers, len(descs)), len(descs), 1*time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, d := range descs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: d.CanvasID,
			Do: func() (any, error) {
				defer wg.Done()
				start := time.Now()
				path, err := RenderFile(d, theme, dir)
				results[i] = Result{Descriptor: d, Path: path, Err: err}
				if err != nil {
					b.logger.Error("chart failed", "canvas", d.CanvasID, "error", err)
					return nil, err
				}
				b.logger.Debug("chart rendered", "canvas", d.CanvasID, "path", path, "elapsed", time.Since(start))
				return path, nil
			},
		})
	}
	wg.Wait()

	errs := make([]error, 0, len(results))
	for _, r := range results {
		errs = append(errs, r.Err)
	}
	return results, errors.Join(errs...)
}
