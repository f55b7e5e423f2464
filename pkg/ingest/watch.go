package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of file events (editors often write a
// file several times per save).
const DefaultDebounce = 250 * time.Millisecond

// Watch calls onChange after SVG files or manifests under dirs are created,
// written, removed or renamed, once per burst of events separated by less
// than debounce. Events for files in ignore never trigger a callback, which
// keeps a callback that writes into a watched directory from re-triggering
// itself. It blocks until ctx is done and then returns nil.
// onChange runs on the watcher goroutine, so a slow callback delays the next
// notification rather than overlapping it.
func Watch(ctx context.Context, dirs []string, ignore PathSet, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if relevant(ev) && !ignore.Has(ev.Name) {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			onChange()
		}
	}
}

// relevant reports whether ev may change the loaded tile set. Chmod-only
// events and hidden files are ignored.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return name == ManifestName || strings.EqualFold(filepath.Ext(name), ".svg")
}
