package refract

import "github.com/zoobzio/capitan"

// Session lifecycle signals.
var (
	// SessionStarted is emitted when a Session begins watching.
	SessionStarted = capitan.NewSignal(
		"refract.session.started",
		"Session watching started",
	)

	// SessionStopped is emitted when a Session stops watching.
	SessionStopped = capitan.NewSignal(
		"refract.session.stopped",
		"Session watching stopped",
	)

	// SchedulerStateChanged is emitted when the scheduler transitions
	// between states.
	SchedulerStateChanged = capitan.NewSignal(
		"refract.scheduler.state.changed",
		"Scheduler state transition",
	)
)

// Change and run signals.
var (
	// ChangeDetected is emitted when a watched path reports a change.
	ChangeDetected = capitan.NewSignal(
		"refract.change.detected",
		"Change detected on a watched source",
	)

	// RunStarted is emitted when a debounced run begins executing.
	RunStarted = capitan.NewSignal(
		"refract.run.started",
		"Scheduled run started",
	)

	// ApplySucceeded is emitted when a run produces output.
	ApplySucceeded = capitan.NewSignal(
		"refract.run.succeeded",
		"Run produced output",
	)

	// ApplyFailed is emitted when a run fails. Superseded runs are not
	// failures and emit nothing.
	ApplyFailed = capitan.NewSignal(
		"refract.run.failed",
		"Run failed",
	)
)

// Source signals.
var (
	// PipelineCreated is emitted when a default pipeline file is
	// synthesized.
	PipelineCreated = capitan.NewSignal(
		"refract.pipeline.created",
		"Default pipeline file created",
	)

	// PipelineRejected is emitted when a loaded definition is not a
	// sequence of steps. The document passes through unchanged.
	PipelineRejected = capitan.NewSignal(
		"refract.pipeline.rejected",
		"Pipeline definition rejected",
	)

	// WatcherFailed is emitted when watching a source fails. The failed
	// watcher stops; the rest of the session continues.
	WatcherFailed = capitan.NewSignal(
		"refract.watcher.failed",
		"Source watcher failed",
	)

	// EditorOpened is emitted when the external editor is spawned.
	EditorOpened = capitan.NewSignal(
		"refract.editor.opened",
		"External editor opened",
	)

	// EditorFailed is emitted when the external editor could not be
	// spawned. Not fatal; the session continues.
	EditorFailed = capitan.NewSignal(
		"refract.editor.failed",
		"External editor failed to open",
	)
)
