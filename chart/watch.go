package chart

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

// Watch renders the descriptor file at path, then re-renders it every time it changes until ctx is done.
// Load and render failures are logged and reported to onRender; they do not stop the watch.
//
// Parameters:
//   - ctx: cancels the watch
//   - path: the descriptor file
//   - theme: the shared theme
//   - dir: the output directory
//   - onRender: called after every render pass, may be nil
//   - options: BatchOption values for each pass
//
// Returns:
//   - error: a watcher setup error, or nil once ctx is done
func Watch(ctx context.Context, path string, theme Theme, dir string, onRender func([]Result, error), options ...BatchOption) error {
	b := &batch{logger: slog.Default()}
	for _, opt := range options {
		opt(b)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create chart watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory so editors that replace the file by rename are still seen
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	pass := func() {
		descs, err := Load(abs)
		var results []Result
		if err == nil {
			results, err = RenderAll(descs, theme, dir, options...)
		}
		if err != nil {
			b.logger.Error("chart watch render failed", "path", path, "error", err)
		} else {
			b.logger.Info("charts rendered", "path", path, "count", len(results))
		}
		if onRender != nil {
			onRender(results, err)
		}
	}
	pass()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Error("chart watcher error", "error", err)
		case <-timer.C:
			pass()
		}
	}
}
