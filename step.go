package refract

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/pkg/errors"
)

// StepKind discriminates the two step variants.
type StepKind int

const (
	// StepQuery is a declarative JSONPath query.
	StepQuery StepKind = iota

	// StepTransform is an opaque unary transformation function.
	StepTransform
)

// TransformFunc is the narrow functional interface a transform step must
// satisfy. It receives the current value (or one element of it, when the
// current value is a sequence) and returns the replacement.
type TransformFunc func(v any) (any, error)

// Step is one stage of a Pipeline: either a compiled JSONPath query or a
// named transform function.
type Step struct {
	Kind StepKind

	// Expr is the query expression for StepQuery steps.
	Expr string
	expr jp.Expr

	// Name identifies the transform for StepTransform steps.
	Name string
	fn   TransformFunc
}

// Query compiles a JSONPath expression into a query step. The dialect
// supports wildcards, recursive descent, filters and array slices.
func Query(expr string) (Step, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return Step{}, errors.Wrapf(err, "parsing query %q", expr)
	}
	return Step{Kind: StepQuery, Expr: expr, expr: x}, nil
}

// Transform wraps a function as a transform step. The name is used only in
// diagnostics and in the serialized form of the step.
func Transform(name string, fn TransformFunc) Step {
	return Step{Kind: StepTransform, Name: name, fn: fn}
}

// describe returns the serialized form of the step for error reporting.
func (s Step) describe() string {
	switch s.Kind {
	case StepQuery:
		return fmt.Sprintf("%q", s.Expr)
	case StepTransform:
		return fmt.Sprintf("transform: %s", s.Name)
	default:
		return fmt.Sprintf("kind %d", s.Kind)
	}
}

// Pipeline is an ordered sequence of steps. Order is significant: each step
// receives the previous step's output.
type Pipeline []Step
