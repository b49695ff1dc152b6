package refract

import (
	"context"

	"github.com/zoobzio/capitan"
	"golang.org/x/sync/errgroup"
)

// coordinator subscribes to one watcher per origin, tags each notification,
// records it in the shared change set and pokes the scheduler. The two
// streams are independent; the change set is the merge point.
type coordinator struct {
	watchers map[Origin]Watcher
	changes  *changeSet
	notify   chan<- struct{}
}

func newCoordinator(changes *changeSet, notify chan<- struct{}) *coordinator {
	return &coordinator{
		watchers: make(map[Origin]Watcher),
		changes:  changes,
		notify:   notify,
	}
}

// add registers a watcher for origin.
func (c *coordinator) add(origin Origin, w Watcher) {
	c.watchers[origin] = w
}

// run pumps all registered watchers until ctx is canceled. A watcher that
// fails to start or dies mid-stream is reported and disabled; the remaining
// watchers keep running.
func (c *coordinator) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for origin, w := range c.watchers {
		g.Go(func() error {
			c.pump(ctx, origin, w)
			return nil
		})
	}
	return g.Wait()
}

// pump forwards one watcher's ticks into the change set.
func (c *coordinator) pump(ctx context.Context, origin Origin, w Watcher) {
	ticks, err := w.Watch(ctx)
	if err != nil {
		capitan.Emit(ctx, WatcherFailed,
			KeyOrigin.Field(origin.String()),
			KeyError.Field(err.Error()),
		)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			c.changes.mark(origin)
			capitan.Emit(ctx, ChangeDetected,
				KeyOrigin.Field(origin.String()),
			)
			// Coalesce pokes: the scheduler only needs to know that
			// something changed since it last looked.
			select {
			case c.notify <- struct{}{}:
			default:
			}
		}
	}
}
