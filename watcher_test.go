package refract

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestPathWatcher_TicksOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	writeFile(t, path, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks, err := NewPathWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	writeFile(t, path, `{"a": 1}`)

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a change tick")
	}
}

func TestPathWatcher_MissingPathFailsToStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := NewPathWatcher(filepath.Join(t.TempDir(), "gone.json")).Watch(ctx)
	if err == nil {
		t.Fatal("expected an error watching a missing path")
	}
}

func TestPathWatcher_ClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	writeFile(t, path, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	ticks, err := NewPathWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	cancel()

	select {
	case _, ok := <-ticks:
		if ok {
			t.Fatal("expected the channel to close, got a tick")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}

func TestChannelWatcher_Passthrough(t *testing.T) {
	ch := make(chan struct{}, 1)
	ticks, err := NewChannelWatcher(ch).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	ch <- struct{}{}
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("expected the tick to pass through")
	}
}
