package refract

// Apply threads doc through the pipeline's steps in declaration order and
// returns the final value.
//
// A query step replaces the current value with its list of matches, always
// a list, even for a single match. A transform step applied to a list maps
// over the elements, preserving order and length; applied to anything else
// it transforms the whole value once.
//
// A nil pipeline returns doc unchanged. Apply is deterministic for pipelines
// whose transform functions are.
func (p Pipeline) Apply(doc any) (any, error) {
	current := doc
	for i, step := range p {
		switch {
		case step.Kind == StepQuery && step.expr != nil:
			current = step.expr.Get(current)

		case step.Kind == StepTransform && step.fn != nil:
			if seq, ok := current.([]any); ok {
				mapped := make([]any, len(seq))
				for j, el := range seq {
					v, err := step.fn(el)
					if err != nil {
						return nil, &StepError{Index: i, Step: step.describe(), Err: err}
					}
					mapped[j] = v
				}
				current = mapped
				continue
			}
			v, err := step.fn(current)
			if err != nil {
				return nil, &StepError{Index: i, Step: step.describe(), Err: err}
			}
			current = v

		default:
			// A zero or hand-built Step that is neither a compiled query
			// nor a callable transform fails the whole run.
			return nil, &StepError{Index: i, Step: step.describe()}
		}
	}
	return current, nil
}
