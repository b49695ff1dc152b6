package refract

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrPipelineUnavailable indicates the pipeline file could not be read.
	ErrPipelineUnavailable = errors.New("pipeline file unavailable")

	// ErrNameExhausted indicates no free filename could be found when
	// synthesizing a default pipeline file.
	ErrNameExhausted = errors.New("no free pipeline filename")

	// ErrUnknownTransform indicates a pipeline file named a transform that
	// is not registered.
	ErrUnknownTransform = errors.New("unknown transform")
)

// StepError reports a step that could not be interpreted or that failed
// during application. Index is the zero-based position of the step in the
// pipeline and Step is its serialized form.
type StepError struct {
	Index int
	Step  string
	Err   error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step, e.Err)
	}
	return fmt.Sprintf("step %d: unsupported step %s", e.Index, e.Step)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ShapeError reports a pipeline definition whose root is not a sequence of
// steps. It is recoverable: the document passes through unchanged.
type ShapeError struct {
	Path string
	Got  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("pipeline %s: definition is %s, want a sequence of steps", e.Path, e.Got)
}
