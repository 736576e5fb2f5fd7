package scanner

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of events (editors write files in
// several steps) into one rescan.
const DefaultDebounce = 300 * time.Millisecond

// Watch reports changes to the entries of dir on the returned channel until
// ctx is cancelled. Each value means "rescan now"; bursts are coalesced. The
// channel is closed when watching stops.
func Watch(ctx context.Context, dir string, debounce time.Duration) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op == fsnotify.Chmod {
					continue
				}
				debugLog("watch: %s %s", ev.Op, ev.Name)
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				debugLog("watch error: %v", err)

			case <-fire:
				fire = nil
				select {
				case changes <- struct{}{}:
				default: // a rescan is already pending
				}
			}
		}
	}()

	return changes, nil
}
