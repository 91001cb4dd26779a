package library

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits for a burst of file events to
// settle before reporting a change.
const WatchDebounce = 250 * time.Millisecond

// Watch calls onChange once the GEDCOM files in dir have been written,
// created, removed or renamed and no further events arrived for debounce.
// It blocks until ctx is done.
func (lib *Library) Watch(ctx context.Context, dir string, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !IsGedcomFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				lib.log.Debug("gedcom file changed", "file", event.Name, "op", event.Op.String())
				timer.Reset(debounce)
			}

		case <-timer.C:
			onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			lib.log.Warn("watch error", "dir", dir, "error", err)
		}
	}
}
