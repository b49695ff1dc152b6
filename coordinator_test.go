package refract

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// brokenWatcher fails at Watch, standing in for a source that cannot be
// observed at all.
type brokenWatcher struct{}

func (brokenWatcher) Watch(context.Context) (<-chan struct{}, error) {
	return nil, errors.New("watch source unavailable")
}

func TestCoordinator_FailedWatcherDoesNotStopTheOther(t *testing.T) {
	changes := &changeSet{}
	notify := make(chan struct{}, 1)
	ticks := make(chan struct{}, 1)

	coord := newCoordinator(changes, notify)
	coord.add(OriginProcess, brokenWatcher{})
	coord.add(OriginData, NewChannelWatcher(ticks))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- coord.run(ctx)
	}()

	ticks <- struct{}{}

	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("the surviving watcher's tick never reached the scheduler")
	}
	if pend, _ := changes.pending(OriginData); !pend {
		t.Fatal("expected the data origin to be marked")
	}
	if pend, _ := changes.pending(OriginProcess); pend {
		t.Fatal("the failed watcher must not mark its origin")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not stop after cancel")
	}
}

func TestCoordinator_CoalescesPokes(t *testing.T) {
	changes := &changeSet{}
	notify := make(chan struct{}, 1)
	ticks := make(chan struct{})

	coord := newCoordinator(changes, notify)
	coord.add(OriginData, NewChannelWatcher(ticks))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = coord.run(ctx) }()

	// Nobody drains notify, so later ticks can only land in the change set.
	for i := 0; i < 3; i++ {
		select {
		case ticks <- struct{}{}:
		case <-time.After(2 * time.Second):
			t.Fatal("coordinator stopped consuming ticks")
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, mark := changes.pending(OriginData); mark == 3 {
			break
		}
		if time.Now().After(deadline) {
			_, mark := changes.pending(OriginData)
			t.Fatalf("expected 3 marks, got %d", mark)
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a poke")
	}
	select {
	case <-notify:
		t.Fatal("pokes must coalesce while the scheduler is not looking")
	default:
	}
}
