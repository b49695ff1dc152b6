package refract

import "sync"

// errorLog holds the most recent per-run diagnostics in arrival order. Runs
// fail independently of one another, so the log is bounded and the oldest
// entry gives way once the bound is reached.
type errorLog struct {
	mu     sync.Mutex
	limit  int
	recent []error
}

// newErrorLog creates an error log holding up to limit entries. A limit of 0
// disables the log.
func newErrorLog(limit int) *errorLog {
	if limit <= 0 {
		return nil
	}
	return &errorLog{limit: limit}
}

// push records a diagnostic, evicting the oldest entry at capacity. Safe on
// a nil log; nil errors are ignored.
func (l *errorLog) push(err error) {
	if l == nil || err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.recent) == l.limit {
		copy(l.recent, l.recent[1:])
		l.recent[len(l.recent)-1] = err
		return
	}
	l.recent = append(l.recent, err)
}

// all returns the recorded diagnostics, oldest first.
func (l *errorLog) all() []error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.recent) == 0 {
		return nil
	}
	out := make([]error, len(l.recent))
	copy(out, l.recent)
	return out
}
