package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/pbql/pkg/engine"
)

// watchDebounce is how long a file must stay quiet before it is re-run.
const watchDebounce = 100 * time.Millisecond

// fileWatcher re-runs file sources whenever they change on disk.
type fileWatcher struct {
	engine   *engine.Engine
	logger   *slog.Logger
	out      io.Writer
	errOut   io.Writer
	format   string
	debounce time.Duration

	// ready, if set, is called once all directories are being watched.
	ready func()
}

// Watch blocks until ctx is done. Directories are watched rather than the
// files themselves so that editors which replace files on save still
// trigger a run.
func (w *fileWatcher) Watch(ctx context.Context, sources []source) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	byPath := make(map[string]source)
	dirs := make(map[string]bool)
	for _, src := range sources {
		if src.Path == "" {
			continue
		}
		abs, err := filepath.Abs(src.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", src.Path, err)
		}
		byPath[abs] = src
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	debounce := w.debounce
	if debounce <= 0 {
		debounce = watchDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()

	pending := make(map[string]bool)

	w.logger.Info("watching for changes", "files", len(byPath))
	if w.ready != nil {
		w.ready()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, ok := byPath[name]; !ok {
				continue
			}
			pending[name] = true
			timer.Reset(debounce)

		case <-timer.C:
			var changed []source
			for _, src := range sources {
				abs, _ := filepath.Abs(src.Path)
				if pending[abs] {
					changed = append(changed, src)
				}
			}
			clear(pending)
			w.rerun(ctx, changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *fileWatcher) rerun(ctx context.Context, changed []source) {
	for _, src := range changed {
		_, _ = fmt.Fprintf(w.errOut, "Change detected: %s\n", filepath.Base(src.Path))
	}

	results, err := runSources(ctx, w.engine, changed)
	if err != nil {
		// A file may vanish between the event and the read.
		_, _ = fmt.Fprintf(w.errOut, "Error: %v\n", err)
		return
	}
	if err := renderResults(w.out, w.errOut, results, w.format); err != nil {
		w.logger.Warn("failed to render results", "error", err)
	}
}
