package refract

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ohler55/ojg/oj"
	"github.com/pkg/errors"
)

// Sink receives the result of a successful run.
type Sink interface {
	Emit(v any) error
}

// FileSink writes the result as indented JSON. The write goes through a
// sibling temp file and a rename so a reader never observes a torn
// document and a failed write never truncates the previous output.
type FileSink struct {
	Path string
}

// Emit implements Sink.
func (s *FileSink) Emit(v any) error {
	text := oj.JSON(v, 2)

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".refract-*")
	if err != nil {
		return errors.Wrapf(err, "creating temp output in %s", dir)
	}
	if _, err := tmp.WriteString(text + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "writing output %s", s.Path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "writing output %s", s.Path)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "replacing output %s", s.Path)
	}
	return nil
}

// ConsoleSink renders the result as a depth-limited tree. Each emit is
// buffered and written in one call so interleaved diagnostics on another
// stream cannot split the output.
type ConsoleSink struct {
	mu       sync.Mutex
	renderer *Renderer
}

// NewConsoleSink creates a console sink rendering to out, eliding
// collections nested deeper than maxDepth.
func NewConsoleSink(out io.Writer, maxDepth int, color bool) *ConsoleSink {
	return &ConsoleSink{renderer: NewRenderer(out, maxDepth, color)}
}

// Emit implements Sink.
func (s *ConsoleSink) Emit(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Render(v)
}
