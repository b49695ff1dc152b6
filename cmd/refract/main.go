package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/zoobzio/capitan"

	"github.com/zoobzio/refract"
)

func main() {
	var (
		pipelinePath string
		outputPath   string
		noWatch      bool
		noEdit       bool
		depth        int
		debounce     int
		editor       string
		colorMode    string
		verbose      bool
	)

	flag.Usage = printUsage
	flag.StringVar(&pipelinePath, "pipeline", "", "pipeline definition file (created next to the input if omitted)")
	flag.StringVar(&outputPath, "out", "", "write the result to a file instead of the console")
	flag.BoolVar(&noWatch, "no-watch", false, "run once and exit instead of watching for changes")
	flag.BoolVar(&noEdit, "no-edit", false, "do not open the watched files in an editor")
	flag.IntVar(&depth, "depth", refract.DefaultDepth, "console rendering depth")
	flag.IntVar(&debounce, "debounce", 250, "debounce interval in milliseconds")
	flag.StringVar(&editor, "editor", "", "editor command (default: $VISUAL, $EDITOR, then vi)")
	flag.StringVar(&colorMode, "color", "auto", "colorize console output: auto, always, never")
	flag.BoolVar(&verbose, "verbose", false, "report detected changes and run state transitions")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	color := isatty.IsTerminal(os.Stdout.Fd())
	switch colorMode {
	case "auto":
	case "always":
		color = true
	case "never":
		color = false
	default:
		fatalError("invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	var stdout io.Writer = os.Stdout
	if color {
		stdout = colorable.NewColorableStdout()
	}

	installDiagnostics(verbose)
	defer capitan.Shutdown()

	cfg := refract.Config{
		InputPath:    inputPath,
		PipelinePath: pipelinePath,
		OutputPath:   outputPath,
		NoWatch:      noWatch,
		NoEditor:     noEdit,
		Depth:        depth,
		Debounce:     debounce,
		Editor:       editor,
	}

	opts := []refract.Option{}
	if outputPath == "" {
		opts = append(opts, refract.WithSink(refract.NewConsoleSink(stdout, depth, color)))
	}

	session, err := refract.NewSession(cfg, opts...)
	if err != nil {
		fatalError("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := session.Start(ctx); err != nil {
		fatalError("%v", err)
	}
}

// installDiagnostics hooks the refract signals and prints severity-prefixed
// diagnostics to stderr, keeping them off the output stream.
func installDiagnostics(verbose bool) {
	capitan.Hook(refract.ApplyFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := refract.KeyError.From(e)
		fmt.Fprintf(os.Stderr, "refract: error: %s\n", msg)
	})

	capitan.Hook(refract.PipelineRejected, func(_ context.Context, e *capitan.Event) {
		msg, _ := refract.KeyError.From(e)
		fmt.Fprintf(os.Stderr, "refract: warning: %s (passing document through)\n", msg)
	})

	capitan.Hook(refract.WatcherFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := refract.KeyError.From(e)
		fmt.Fprintf(os.Stderr, "refract: warning: watcher stopped: %s\n", msg)
	})

	capitan.Hook(refract.EditorFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := refract.KeyError.From(e)
		fmt.Fprintf(os.Stderr, "refract: warning: %s\n", msg)
	})

	capitan.Hook(refract.PipelineCreated, func(_ context.Context, e *capitan.Event) {
		path, _ := refract.KeyPath.From(e)
		fmt.Fprintf(os.Stderr, "refract: created pipeline file %s\n", path)
	})

	if !verbose {
		return
	}

	capitan.Hook(refract.ChangeDetected, func(_ context.Context, e *capitan.Event) {
		origin, _ := refract.KeyOrigin.From(e)
		fmt.Fprintf(os.Stderr, "refract: change detected (%s)\n", origin)
	})

	capitan.Hook(refract.SchedulerStateChanged, func(_ context.Context, e *capitan.Event) {
		oldState, _ := refract.KeyOldState.From(e)
		newState, _ := refract.KeyNewState.From(e)
		fmt.Fprintf(os.Stderr, "refract: %s -> %s\n", oldState, newState)
	})
}

func fatalError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "refract: error: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: refract [options] <input.json>

Applies a pipeline of JSONPath queries and named transforms to a JSON
document and re-runs it whenever the input or the pipeline file changes.

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Pipeline file format (YAML or JSON, one step per list item):

  - "$.items[*]"        JSONPath query; the result is the list of matches
  - transform: compact  named transform, mapped over list values

`)
}
