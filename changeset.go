package refract

import "sync"

// Origin tags a change notification with the source it came from.
type Origin int

const (
	// OriginData is a change to the input document.
	OriginData Origin = iota

	// OriginProcess is a change to the pipeline definition.
	OriginProcess
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginData:
		return "data"
	case OriginProcess:
		return "process"
	default:
		return "unknown"
	}
}

// changeSet accumulates pending change origins between runs. Marks are
// counted rather than flagged so a change arriving mid-run is never lost: an
// origin stays pending until acknowledge is called with the exact mark count
// the run observed, and any later mark keeps it pending.
type changeSet struct {
	mu       sync.Mutex
	marked   [2]uint64
	reloaded [2]uint64
}

// mark records a change notification for origin.
func (c *changeSet) mark(o Origin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.marked[o]++
}

// pending reports whether origin has unacknowledged changes, along with the
// mark count observed. Pass the count to acknowledge after the source has
// actually been reloaded.
func (c *changeSet) pending(o Origin) (bool, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marked[o] > c.reloaded[o], c.marked[o]
}

// acknowledge clears origin up to the given mark count. Marks recorded after
// the count was observed remain pending.
func (c *changeSet) acknowledge(o Origin, upto uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if upto > c.reloaded[o] {
		c.reloaded[o] = upto
	}
}
