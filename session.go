package refract

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"golang.org/x/sync/errgroup"
)

// validate is the shared validator instance.
var validate = validator.New()

// Config is the session configuration surface.
type Config struct {
	// InputPath is the JSON document to transform.
	InputPath string `validate:"required"`

	// PipelinePath is the pipeline definition file. When empty, a sibling
	// file seeded with the identity pipeline is created next to the input.
	PipelinePath string

	// OutputPath receives the result as JSON. When empty, the result is
	// rendered to the console.
	OutputPath string

	// NoWatch disables watching: one run, then return.
	NoWatch bool

	// NoEditor disables opening the external editor.
	NoEditor bool

	// Depth limits console rendering depth. Defaults to DefaultDepth.
	Depth int `validate:"min=1"`

	// Debounce is the debounce interval in milliseconds. Defaults to
	// DefaultDebounce.
	Debounce int `validate:"min=1"`

	// Editor overrides the external editor command. Falls back through
	// $VISUAL, $EDITOR and DefaultEditor.
	Editor string
}

// Session wires the coordinator, scheduler and executor for one input, one
// pipeline definition and one sink.
type Session struct {
	cfg      Config
	clock    clockz.Clock
	registry *Registry
	sink     Sink
	loader   *Loader
	changes  *changeSet
	history  *errorLog
	hook     func(RunResult)
	watchers map[Origin]Watcher

	executor     *Executor
	scheduler    *Scheduler
	pipelinePath string
	created      bool
	openOnce     sync.Once
}

// NewSession validates cfg, applies defaults and builds a Session.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if cfg.Depth == 0 {
		cfg.Depth = DefaultDepth
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = int(DefaultDebounce / time.Millisecond)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Session{
		cfg:      cfg,
		clock:    clockz.RealClock,
		changes:  &changeSet{},
		history:  newErrorLog(16),
		watchers: make(map[Origin]Watcher),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewRegistry()
	}
	if s.sink == nil {
		if cfg.OutputPath != "" {
			s.sink = &FileSink{Path: cfg.OutputPath}
		} else {
			s.sink = NewConsoleSink(os.Stdout, cfg.Depth, false)
		}
	}
	s.loader = NewLoader(s.registry)
	return s, nil
}

// PipelinePath returns the resolved pipeline definition path. Empty before
// Start.
func (s *Session) PipelinePath() string {
	return s.pipelinePath
}

// RecentErrors returns the most recent per-run diagnostics, oldest first.
func (s *Session) RecentErrors() []error {
	return s.history.all()
}

// Start loads the sources, performs the first run and, unless watching is
// disabled, blocks consuming filesystem changes until ctx is canceled.
//
// Setup failures are fatal and returned: an unreadable or unparseable input
// document, a pipeline file that stays unreadable after resolution, or
// exhausting candidate names while synthesizing one. Failures inside later
// scheduled runs are reported and absorbed; the session keeps watching.
func (s *Session) Start(ctx context.Context) error {
	capitan.Emit(ctx, SessionStarted,
		KeyPath.Field(s.cfg.InputPath),
		KeyDebounce.Field(s.debounce()),
	)
	defer capitan.Emit(ctx, SessionStopped)

	doc, err := LoadDocument(s.cfg.InputPath)
	if err != nil {
		return err
	}

	path, created, err := s.loader.Resolve(s.cfg.PipelinePath, s.cfg.InputPath)
	if err != nil {
		return err
	}
	s.pipelinePath = path
	s.created = created
	if created {
		capitan.Emit(ctx, PipelineCreated,
			KeyPath.Field(path),
		)
	}

	s.executor = newExecutor(s.cfg.InputPath, path, s.loader, s.changes, s.sink, s.history)
	s.executor.doc = doc

	// The first run loads the pipeline through the same path later reloads
	// take: mark the process origin pending and let the executor pull it.
	s.changes.mark(OriginProcess)
	res, runErr := s.executor.Run(ctx, func() bool { return true })
	if runErr != nil && errors.Is(runErr, ErrPipelineUnavailable) {
		return runErr
	}
	if res == RunCompleted {
		s.maybeOpenEditor(ctx)
	}
	if s.hook != nil {
		s.hook(res)
	}

	if s.cfg.NoWatch {
		return runErr
	}

	notify := make(chan struct{}, 1)
	coord := newCoordinator(s.changes, notify)
	coord.add(OriginData, s.watcherFor(OriginData, s.cfg.InputPath))
	coord.add(OriginProcess, s.watcherFor(OriginProcess, path))

	s.scheduler = newScheduler(s.executor, notify, s.debounce(), s.clock, func(r RunResult) {
		if r == RunCompleted {
			s.maybeOpenEditor(ctx)
		}
		if s.hook != nil {
			s.hook(r)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return coord.run(gctx) })
	g.Go(func() error { return s.scheduler.run(gctx) })
	return g.Wait()
}

// maybeOpenEditor opens the input and pipeline files once, after the first
// successful run. Suppressed when disabled, or when watching is disabled and
// an explicit pipeline path was provided.
func (s *Session) maybeOpenEditor(ctx context.Context) {
	if s.cfg.NoEditor {
		return
	}
	if s.cfg.NoWatch && s.cfg.PipelinePath != "" {
		return
	}
	s.openOnce.Do(func() {
		command := editorCommand(s.cfg.Editor)
		if err := openInEditor(ctx, command, s.cfg.InputPath, s.pipelinePath); err != nil {
			s.history.push(err)
			capitan.Emit(ctx, EditorFailed,
				KeyEditor.Field(command),
				KeyError.Field(err.Error()),
			)
		}
	})
}

func (s *Session) watcherFor(origin Origin, path string) Watcher {
	if w, ok := s.watchers[origin]; ok {
		return w
	}
	return NewPathWatcher(path)
}

func (s *Session) debounce() time.Duration {
	return time.Duration(s.cfg.Debounce) * time.Millisecond
}
