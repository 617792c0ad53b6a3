// Package watch re-runs the filter whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/pacofilter/internal/checksum"
)

const debounce = 200 * time.Millisecond

// Func is invoked once the watched file has settled with new content.
type Func func() error

// Run watches path until ctx is cancelled and calls fn after every change
// that alters the file's content. Bursts of events are debounced; a failing
// fn is logged and watching continues.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename keep being followed.
func Run(ctx context.Context, path string, logger *slog.Logger, fn Func) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	last, err := checksum.File(abs)
	if err != nil {
		logger.Warn("watcher: initial checksum failed", slog.String("path", abs), slog.String("error", err.Error()))
	}

	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			sum, sumErr := checksum.File(abs)
			if sumErr != nil {
				logger.Warn("watcher: read failed", slog.String("path", abs), slog.String("error", sumErr.Error()))
				continue
			}
			if sum == last {
				logger.Debug("watcher: content unchanged", slog.String("path", abs))
				continue
			}
			last = sum
			if runErr := fn(); runErr != nil {
				logger.Error("watcher: run failed", slog.String("path", abs), slog.String("error", runErr.Error()))
				continue
			}
			logger.Debug("watcher: refiltered", slog.String("path", abs), slog.String("checksum", sum))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
