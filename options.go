package refract

import "github.com/zoobzio/clockz"

// Option configures a Session.
type Option func(*Session)

// WithClock sets a custom clock for debounce timing. Use this with
// clockz.FakeClock for deterministic tests.
func WithClock(clock clockz.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithRegistry sets the transform registry pipeline files resolve names
// against. Defaults to NewRegistry().
func WithRegistry(r *Registry) Option {
	return func(s *Session) {
		s.registry = r
	}
}

// WithSink overrides the output sink derived from the configuration.
func WithSink(sink Sink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithWatcher overrides the watcher for one origin. Defaults to a
// PathWatcher on the configured path.
func WithWatcher(origin Origin, w Watcher) Option {
	return func(s *Session) {
		s.watchers[origin] = w
	}
}

// WithResultHook registers a function observing the result of every run,
// including the first. Called from the run goroutine.
func WithResultHook(hook func(RunResult)) Option {
	return func(s *Session) {
		s.hook = hook
	}
}
