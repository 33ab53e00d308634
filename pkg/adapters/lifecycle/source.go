// Package lifecycle exposes note store changes as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/vidnote/pkg/core"
)

// Watcher is implemented by core.Service and by watchable repositories.
type Watcher interface {
	Watch(ctx context.Context) (<-chan core.Event, error)
}

type storeSource struct {
	watcher Watcher
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits store change events.
// Watching starts on Start; Events is closed when the context ends or the watcher stops.
func NewSource(w Watcher) lifecycle.Source {
	return &storeSource{
		watcher: w,
		out:     make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	events, err := s.watcher.Watch(ctx)
	if err != nil {
		close(s.out)
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event satisfies lifecycle.Event through String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
