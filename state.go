package refract

// State represents the current state of the Scheduler.
type State int32

const (
	// StateIdle indicates no run is pending or executing.
	StateIdle State = iota

	// StateDebouncing indicates a change was received and the scheduler is
	// waiting for the debounce interval to elapse.
	StateDebouncing

	// StateRunning indicates a run is executing. A notification arriving in
	// this state supersedes the run.
	StateRunning
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// RunResult classifies how a scheduled run ended.
type RunResult int

const (
	// RunCompleted means the run produced output.
	RunCompleted RunResult = iota

	// RunCancelled means the run was superseded and abandoned at a
	// checkpoint without producing output. Not an error.
	RunCancelled

	// RunFailed means the run hit a reported error; the previous output is
	// left as-is.
	RunFailed
)

// String returns the string representation of the result.
func (r RunResult) String() string {
	switch r {
	case RunCompleted:
		return "completed"
	case RunCancelled:
		return "cancelled"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}
