package refract

import (
	"context"
	"os"
	"sync"

	"github.com/ohler55/ojg/oj"
	"github.com/pkg/errors"
	"github.com/zoobzio/capitan"
)

// Executor is the unit of work the scheduler runs. It owns the last-good
// document and pipeline, reloads only the origins with pending changes,
// re-applies the pipeline and hands the result to the sink.
type Executor struct {
	inputPath    string
	pipelinePath string
	loader       *Loader
	changes      *changeSet
	sink         Sink
	history      *errorLog

	mu       sync.Mutex
	doc      any
	pipeline Pipeline
}

func newExecutor(inputPath, pipelinePath string, loader *Loader, changes *changeSet, sink Sink, history *errorLog) *Executor {
	return &Executor{
		inputPath:    inputPath,
		pipelinePath: pipelinePath,
		loader:       loader,
		changes:      changes,
		sink:         sink,
		history:      history,
	}
}

// Run executes one scheduled run under ctx. current reports whether this run
// is still the newest; it guards the final emit so a stale run racing past
// its last checkpoint cannot publish over a newer run's output.
//
// Checkpoints sit before each phase: input reload, pipeline reload,
// interpretation, output. A cancellation observed at a checkpoint abandons
// the run silently. Any other failure is reported and returned; the
// last-good document, pipeline and output all stand.
func (e *Executor) Run(ctx context.Context, current func() bool) (RunResult, error) {
	if ctx.Err() != nil {
		return RunCancelled, nil
	}
	if pend, mark := e.changes.pending(OriginData); pend {
		doc, err := LoadDocument(e.inputPath)
		if err != nil {
			return e.fail(ctx, err)
		}
		e.mu.Lock()
		e.doc = doc
		e.mu.Unlock()
		e.changes.acknowledge(OriginData, mark)
	}

	if ctx.Err() != nil {
		return RunCancelled, nil
	}
	if pend, mark := e.changes.pending(OriginProcess); pend {
		if res, err := e.reloadPipeline(ctx, mark); err != nil {
			return res, err
		}
	}

	if ctx.Err() != nil {
		return RunCancelled, nil
	}
	e.mu.Lock()
	doc, pipeline := e.doc, e.pipeline
	e.mu.Unlock()
	out, err := pipeline.Apply(doc)
	if err != nil {
		return e.fail(ctx, err)
	}

	if ctx.Err() != nil || !current() {
		return RunCancelled, nil
	}
	if err := e.sink.Emit(out); err != nil {
		return e.fail(ctx, errors.Wrap(err, "writing output"))
	}
	return RunCompleted, nil
}

// reloadPipeline loads the definition fresh. A *ShapeError is recoverable:
// it is reported and the pipeline becomes pass-through, exactly as if the
// interpreter had skipped processing. Anything else fails the run and keeps
// the last-good pipeline.
func (e *Executor) reloadPipeline(ctx context.Context, mark uint64) (RunResult, error) {
	p, err := e.loader.Load(e.pipelinePath)

	var shape *ShapeError
	switch {
	case err == nil:
		e.mu.Lock()
		e.pipeline = p
		e.mu.Unlock()

	case errors.As(err, &shape):
		e.history.push(err)
		capitan.Emit(ctx, PipelineRejected,
			KeyPath.Field(e.pipelinePath),
			KeyError.Field(err.Error()),
		)
		e.mu.Lock()
		e.pipeline = nil
		e.mu.Unlock()

	default:
		return e.fail(ctx, err)
	}

	e.changes.acknowledge(OriginProcess, mark)
	return RunCompleted, nil
}

// fail records and reports a per-run error.
func (e *Executor) fail(ctx context.Context, err error) (RunResult, error) {
	e.history.push(err)
	capitan.Emit(ctx, ApplyFailed,
		KeyError.Field(err.Error()),
	)
	return RunFailed, err
}

// LoadDocument reads and parses the input document at path.
func LoadDocument(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading input %s", path)
	}
	doc, err := oj.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing input %s", path)
	}
	return doc, nil
}
