package refract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// defaultPipeline seeds a freshly created definition file with a single
// identity query step.
const defaultPipeline = `# refract pipeline: one step per list item.
# A string entry is a JSONPath query; a mapping with a "transform" key
# applies a named transform to the current value.
- "$"
`

// pipelineSuffix is appended to the input filename when synthesizing a
// sibling pipeline file.
const pipelineSuffix = ".refract.yaml"

// fallbackPipelineName is used when no input path hint is available.
const fallbackPipelineName = "pipeline" + pipelineSuffix

// maxNameAttempts bounds collision probing during synthesis.
const maxNameAttempts = 100

// Loader resolves and loads pipeline definitions. Every Load reads the file
// fresh; nothing is cached between reloads, so edits are always picked up.
type Loader struct {
	registry *Registry
}

// NewLoader returns a Loader that resolves transform names against the
// given registry.
func NewLoader(registry *Registry) *Loader {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Loader{registry: registry}
}

// Resolve returns the absolute path of the pipeline definition to use.
//
// With an explicit pipelinePath it only resolves to absolute form. With an
// empty pipelinePath it synthesizes a sibling file next to inputHint (or
// fallbackPipelineName in the working directory when inputHint is empty),
// seeded with the identity pipeline. Candidate names are probed with numeric
// suffixes so an existing file is never overwritten; exhausting
// maxNameAttempts candidates fails with ErrNameExhausted.
//
// The returned bool reports whether a new file was created.
func (l *Loader) Resolve(pipelinePath, inputHint string) (string, bool, error) {
	if pipelinePath != "" {
		abs, err := filepath.Abs(pipelinePath)
		if err != nil {
			return "", false, errors.Wrapf(err, "resolving pipeline path %s", pipelinePath)
		}
		return abs, false, nil
	}

	base := fallbackPipelineName
	if inputHint != "" {
		name := strings.TrimSuffix(filepath.Base(inputHint), filepath.Ext(inputHint))
		base = filepath.Join(filepath.Dir(inputHint), name+pipelineSuffix)
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", false, errors.Wrapf(err, "resolving pipeline path %s", base)
	}

	for i := 0; i < maxNameAttempts; i++ {
		candidate := abs
		if i > 0 {
			ext := filepath.Ext(abs)
			candidate = fmt.Sprintf("%s.%d%s", strings.TrimSuffix(abs, ext), i, ext)
		}
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", false, errors.Wrapf(err, "creating pipeline file %s", candidate)
		}
		if _, err := f.WriteString(defaultPipeline); err != nil {
			f.Close()
			return "", false, errors.Wrapf(err, "writing pipeline file %s", candidate)
		}
		if err := f.Close(); err != nil {
			return "", false, errors.Wrapf(err, "writing pipeline file %s", candidate)
		}
		return candidate, true, nil
	}
	return "", false, errors.Wrapf(ErrNameExhausted, "tried %d candidates for %s", maxNameAttempts, abs)
}

// Load reads and decodes the pipeline definition at path. The file is read
// fresh on every call. An unreadable file fails with ErrPipelineUnavailable;
// a root value that is not a sequence fails with *ShapeError; an entry that
// is neither a query string nor a transform mapping fails with *StepError.
func (l *Loader) Load(path string) (Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrPipelineUnavailable, "%s: %v", path, err)
	}
	return l.parse(raw, path)
}

// parse decodes a raw definition into a Pipeline.
func (l *Loader) parse(raw []byte, path string) (Pipeline, error) {
	root, err := decodeDefinition(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding pipeline %s", path)
	}

	seq, ok := root.([]any)
	if !ok {
		return nil, &ShapeError{Path: path, Got: describeValue(root)}
	}

	pipeline := make(Pipeline, 0, len(seq))
	for i, entry := range seq {
		step, err := l.decodeStep(i, entry)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, step)
	}
	return pipeline, nil
}

// decodeStep turns one definition entry into a Step.
func (l *Loader) decodeStep(index int, entry any) (Step, error) {
	switch t := entry.(type) {
	case string:
		step, err := Query(t)
		if err != nil {
			return Step{}, &StepError{Index: index, Step: serializeEntry(entry), Err: err}
		}
		return step, nil

	case map[string]any:
		name, ok := t["transform"].(string)
		if !ok || len(t) != 1 {
			return Step{}, &StepError{Index: index, Step: serializeEntry(entry)}
		}
		fn, ok := l.registry.Lookup(name)
		if !ok {
			return Step{}, &StepError{
				Index: index,
				Step:  serializeEntry(entry),
				Err:   errors.Wrap(ErrUnknownTransform, name),
			}
		}
		return Transform(name, fn), nil

	default:
		return Step{}, &StepError{Index: index, Step: serializeEntry(entry)}
	}
}

// decodeDefinition parses raw bytes, detecting JSON by the leading character
// and falling back to YAML (which also accepts plain JSON).
func decodeDefinition(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrap(err, "expected JSON")
		}
		return v, nil
	}
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return normalizeYAML(v), nil
}

// normalizeYAML rewrites yaml.v3's map[string]any/[]any tree in place so
// nested values use the same shapes the JSON decoder produces.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, el := range t {
			t[k] = normalizeYAML(el)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[fmt.Sprint(k)] = normalizeYAML(el)
		}
		return out
	case []any:
		for i, el := range t {
			t[i] = normalizeYAML(el)
		}
		return t
	default:
		return v
	}
}

// serializeEntry renders a definition entry for diagnostics.
func serializeEntry(entry any) string {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf("%v", entry)
	}
	return string(b)
}

// describeValue names the shape of a decoded value for ShapeError messages.
func describeValue(v any) string {
	switch v.(type) {
	case nil:
		return "empty"
	case map[string]any:
		return "a mapping"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int, int64, float64:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
