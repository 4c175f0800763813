package playground

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a set of files. Directories are watched rather
// than files so editors that save by rename are still seen.
type Watcher struct {
	fs    *fsnotify.Watcher
	log   *slog.Logger
	dirs  map[string]bool
	files map[string]bool
}

func NewWatcher(log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		fs:    fw,
		log:   log,
		dirs:  make(map[string]bool),
		files: make(map[string]bool),
	}, nil
}

// Watch replaces the watched file set.
func (w *Watcher) Watch(paths []string) error {
	files := make(map[string]bool, len(paths))
	var firstErr error
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("watch %s: %w", dir, err)
			}
			continue
		}
		w.dirs[dir] = true
		w.log.Debug("watching directory", "dir", dir)
	}
	w.files = files
	return firstErr
}

// Changed drains pending events without blocking and reports whether any
// touched a watched file. Bursts of events collapse into one true.
func (w *Watcher) Changed() bool {
	changed := false
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return changed
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if w.files[filepath.Clean(ev.Name)] {
				w.log.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
				changed = true
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return changed
			}
			w.log.Warn("watch error", "error", err)
		default:
			return changed
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
