/*
Package refract provides a live-reloading JSON transformation pipeline.

refract reads a JSON document, threads it through an ordered pipeline of
transformation steps, and emits the result, re-running automatically whenever
the input document or the pipeline definition changes on disk.

# Steps

A pipeline is an ordered sequence of steps. Each step is one of two variants:

  - Query: a JSONPath expression evaluated against the current value. The
    result is always the list of matches, even when exactly one node matches.
  - Transform: a function applied to the current value. When the current
    value is a sequence, the function is mapped over its elements.

The always-a-list query semantics is deliberate: it lets a transform step
that follows a query map uniformly over the matches without the pipeline
author writing explicit branching.

Pipelines are defined in a YAML or JSON file, one entry per step. A string
entry is a query; a mapping with a "transform" key names a function from the
Registry:

	- "$.items[*]"
	- transform: compact
	- "$[?(@.price > 10)]"

Programmatic users can register arbitrary transform functions; the pipeline
file itself carries only names, so the trust boundary stays at the registry.

# Reactive core

A Session watches the input file and the pipeline file independently. Change
notifications are tagged with their origin, accumulated in a change set, and
debounced: a burst of writes collapses into a single run after the debounce
interval elapses. Each scheduled run holds a cancellation token; a newer
notification supersedes the token, and the superseded run abandons itself at
its next checkpoint without producing output. Only the sources that actually
changed are reloaded, and a pending change is cleared only once its source
has been reloaded, so a change arriving mid-run is never lost.

A failed run is reported and leaves the last successful output untouched; the
session keeps watching. A malformed pipeline (not a sequence of steps) is
reported and the document passes through unchanged.

# Example

	session, err := refract.NewSession(refract.Config{
	    InputPath: "data.json",
	    Depth:     5,
	    Debounce:  250,
	})
	if err != nil {
	    log.Fatal(err)
	}
	if err := session.Start(ctx); err != nil {
	    log.Fatal(err)
	}

# Observability

Package-level capitan signals report run lifecycle, detected changes,
rejected pipelines, and watcher failures. Hook them to drive diagnostics:

	capitan.Hook(refract.ApplyFailed, func(_ context.Context, e *capitan.Event) {
	    msg, _ := refract.KeyError.From(e)
	    fmt.Fprintf(os.Stderr, "refract: error: %s\n", msg)
	})

Cancellation of a superseded run is not an error and emits nothing.
*/
package refract
