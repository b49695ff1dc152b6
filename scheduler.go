package refract

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce interval for change processing.
const DefaultDebounce = 250 * time.Millisecond

// Scheduler owns debounce timing and run cancellation. Each change
// notification cancels the current run token and re-arms the debounce timer;
// when the timer fires with no further notification, a new run executes
// under a fresh token. At most one run is active at a time: a newly
// scheduled run always supersedes a prior one, and the superseded run
// abandons itself at its next checkpoint.
type Scheduler struct {
	exec     *Executor
	notify   <-chan struct{}
	debounce time.Duration
	clock    clockz.Clock
	hook     func(RunResult)

	state atomic.Int32
	gen   atomic.Uint64

	// cancel is the token of the pending or in-flight run. Accessed only
	// from the scheduler loop.
	cancel context.CancelFunc
}

func newScheduler(exec *Executor, notify <-chan struct{}, debounce time.Duration, clock clockz.Clock, hook func(RunResult)) *Scheduler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Scheduler{
		exec:     exec,
		notify:   notify,
		debounce: debounce,
		clock:    clock,
		hook:     hook,
	}
}

// State returns the scheduler's current state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// run consumes change notifications until ctx is canceled or the
// notification channel closes.
func (s *Scheduler) run(ctx context.Context) error {
	var timer clockz.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		s.supersede()
	}()

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			return nil

		case _, ok := <-s.notify:
			if !ok {
				return nil
			}
			s.supersede()
			s.transition(ctx, StateDebouncing)

			if timer == nil {
				timer = s.clock.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(s.debounce)
			}

		case <-timerC:
			s.transition(ctx, StateRunning)
			runCtx, cancel := context.WithCancel(ctx)
			s.cancel = cancel
			gen := s.gen.Add(1)
			capitan.Emit(ctx, RunStarted,
				KeyGeneration.Field(int(gen)),
			)
			// The run executes on its own goroutine so the loop keeps
			// consuming notifications and can supersede it cooperatively.
			go s.execute(runCtx, gen)
		}
	}
}

// execute performs one run under its token and restores the idle state if
// the run was not superseded meanwhile.
func (s *Scheduler) execute(ctx context.Context, gen uint64) {
	res, _ := s.exec.Run(ctx, func() bool {
		return ctx.Err() == nil && s.gen.Load() == gen
	})

	if res == RunCompleted {
		capitan.Emit(ctx, ApplySucceeded,
			KeyGeneration.Field(int(gen)),
		)
	}
	// RunCancelled is absorbed silently; RunFailed was already reported at
	// the point of failure.

	if s.gen.Load() == gen && s.State() == StateRunning {
		s.transition(ctx, StateIdle)
	}
	if s.hook != nil {
		s.hook(res)
	}
}

// supersede signals the current run token, without waiting.
func (s *Scheduler) supersede() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// transition updates the state and emits a state change event if changed.
func (s *Scheduler) transition(ctx context.Context, next State) {
	prev := State(s.state.Swap(int32(next)))
	if prev == next {
		return
	}
	capitan.Emit(ctx, SchedulerStateChanged,
		KeyOldState.Field(prev.String()),
		KeyNewState.Field(next.String()),
	)
}
