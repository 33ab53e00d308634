package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/vidnote/pkg/core"
)

const debounceWindow = 50 * time.Millisecond

// Watch reports changes made to the note document by other processes or editors.
// The parent directory is watched because atomic replaces swap the file's inode.
// The channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(r.Path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan core.Event, 16)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		return r.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.reportWatchError(fmt.Errorf("watcher stopped: %w", err))
	}))

	return events, nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- core.Event) error {
	d := newDebouncer(debounceWindow)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			r.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

			eType := r.mapEventType(event)
			if eType == "" {
				continue
			}
			d.add(core.Event{Type: eType, ID: r.Path, Timestamp: time.Now().Unix()}, func(e core.Event, stopped <-chan struct{}) {
				select {
				case out <- e:
				case <-ctx.Done():
				case <-stopped:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			r.reportWatchError(err)
		}
	}
}

// mapEventType keeps events for the document itself and drops temp files and siblings.
func (r *Repository) mapEventType(event fsnotify.Event) core.EventType {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, TempFilePrefix) || name != filepath.Base(r.Path) {
		return ""
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return core.EventModify
	default:
		return ""
	}
}

func (r *Repository) reportWatchError(err error) {
	r.config.Logger.Error("fsnotify error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

// debouncer collapses a burst of events into the last one seen.
// Stopping it releases a blocked delivery through the channel passed to deliver, then
// waits for it, so the output channel can be closed safely.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	pending core.Event
	wg      sync.WaitGroup
	stopped bool
	done    chan struct{}
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, done: make(chan struct{})}
}

func (d *debouncer) add(e core.Event, deliver func(core.Event, <-chan struct{})) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = e
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.window, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		ev := d.pending
		d.mu.Unlock()
		deliver(ev, d.done)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.done)
	}
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.mu.Unlock()
	d.wg.Wait()
}
