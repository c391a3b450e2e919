package streams

import (
	"github.com/fsnotify/fsnotify"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/msgbus"
)

// WatchStream watches roots for filesystem changes and posts
// Control(LoadNewSongs) onto bus whenever something changes, letting the
// existing scan-and-diff path (library.Scan) pick up the delta rather
// than threading change events through a separate code path. Optional:
// the reactor works fine without a watcher, just without automatic
// rescans (spec.md §4.2).
func WatchStream(bus *msgbus.Bus, roots []string, removeMissing bool) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if addErr := w.Add(root); addErr != nil {
			w.Close()
			return nil, addErr
		}
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				bus.Send(msgbus.FromControl(control.Load(control.LoadOptions{RemoveMissing: removeMissing})))
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		w.Close()
	}, nil
}
