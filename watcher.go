package refract

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/zoobzio/capitan"
)

// Watcher observes a source for changes and emits a tick per change. The
// notification carries no payload; reloading the source is the run
// executor's job, so only the sources that actually changed are re-read.
type Watcher interface {
	// Watch begins observing the source and returns a channel that ticks
	// when a change occurs. The channel is closed when the context is
	// canceled or the watcher fails.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// PathWatcher watches a single filesystem path using fsnotify.
type PathWatcher struct {
	path string
}

// NewPathWatcher creates a PathWatcher for the given path.
func NewPathWatcher(path string) *PathWatcher {
	return &PathWatcher{path: path}
}

// Watch begins watching the path. Write and create events produce a tick.
// An error on the fsnotify error stream is surfaced via WatcherFailed and
// stops this watcher; other watchers are unaffected.
func (w *PathWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}

	if err := watcher.Add(w.path); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watching %s", w.path)
	}

	out := make(chan struct{})

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case out <- struct{}{}:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				capitan.Emit(ctx, WatcherFailed,
					KeyPath.Field(w.path),
					KeyError.Field(err.Error()),
				)
				return
			}
		}
	}()

	return out, nil
}

// ChannelWatcher wraps an existing tick channel as a Watcher. Useful for
// testing and custom sources.
type ChannelWatcher struct {
	ch <-chan struct{}
}

// NewChannelWatcher creates a ChannelWatcher that returns the source channel
// directly, making tests deterministic.
func NewChannelWatcher(ch <-chan struct{}) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// Watch returns the wrapped channel.
func (w *ChannelWatcher) Watch(_ context.Context) (<-chan struct{}, error) {
	return w.ch, nil
}
