package rulefile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// Importer applies a parsed rule file.
type Importer interface {
	Import(ctx context.Context, file *File) error
}

// Watcher re-imports the rule file after it changes. Bursts of writes within
// the debounce window result in a single import.
type Watcher struct {
	path     string
	importer Importer
	debounce time.Duration
	logger   *slog.Logger
}

func NewWatcher(path string, importer Importer, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		importer: importer,
		debounce: debounce,
		logger:   logger.With("component", "rulefile_watcher", "path", path),
	}
}

// Run blocks until ctx is done. The parent directory is watched so that
// editors replacing the file by rename are noticed.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	file, err := Load(w.path)
	if err != nil {
		w.logger.Error("cannot load rule file", "error", err)
		return
	}

	if err := w.importer.Import(ctx, file); err != nil {
		w.logger.Error("cannot import rule file", "error", err)
		return
	}
	w.logger.Info("rule file imported", "users", len(file.Users))
}
