package refract

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry maps transform names to functions. Pipeline files reference
// transforms by name only; the functions themselves are registered by the
// embedding program, so a definition file can never introduce code of its
// own.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]TransformFunc
}

// NewRegistry returns a registry seeded with the builtin transforms.
func NewRegistry() *Registry {
	r := &Registry{fns: make(map[string]TransformFunc)}
	for name, fn := range builtins {
		r.fns[name] = fn
	}
	return r
}

// Register adds a named transform. Registering an empty name or a nil
// function is an error; re-registering a name replaces the previous
// function.
func (r *Registry) Register(name string, fn TransformFunc) error {
	if name == "" {
		return errors.New("transform name must not be empty")
	}
	if fn == nil {
		return errors.Errorf("transform %q: function must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
	return nil
}

// Lookup returns the transform registered under name.
func (r *Registry) Lookup(name string) (TransformFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns the registered transform names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builtins are the transforms every registry starts with. They operate on
// the parsed JSON value tree (map[string]any, []any, scalars).
var builtins = map[string]TransformFunc{
	"identity": func(v any) (any, error) {
		return v, nil
	},

	// flatten concatenates one level of nesting: [[1,2],[3],4] -> [1,2,3,4].
	"flatten": func(v any) (any, error) {
		seq, ok := v.([]any)
		if !ok {
			return v, nil
		}
		flat := make([]any, 0, len(seq))
		for _, el := range seq {
			if inner, ok := el.([]any); ok {
				flat = append(flat, inner...)
				continue
			}
			flat = append(flat, el)
		}
		return flat, nil
	},

	"length": func(v any) (any, error) {
		switch t := v.(type) {
		case []any:
			return int64(len(t)), nil
		case map[string]any:
			return int64(len(t)), nil
		case string:
			return int64(len(t)), nil
		default:
			return nil, errors.Errorf("length: unsupported value %T", v)
		}
	},

	"keys": func(v any) (any, error) {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, errors.Errorf("keys: want an object, got %T", v)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil
	},

	// values returns object values in key order so the result is stable.
	"values": func(v any) (any, error) {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, errors.Errorf("values: want an object, got %T", v)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = obj[k]
		}
		return out, nil
	},

	// compact drops null elements from a sequence.
	"compact": func(v any) (any, error) {
		seq, ok := v.([]any)
		if !ok {
			return v, nil
		}
		out := make([]any, 0, len(seq))
		for _, el := range seq {
			if el != nil {
				out = append(out, el)
			}
		}
		return out, nil
	},

	"sort": func(v any) (any, error) {
		seq, ok := v.([]any)
		if !ok {
			return nil, errors.Errorf("sort: want a sequence, got %T", v)
		}
		out := make([]any, len(seq))
		copy(out, seq)
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			less, err := scalarLess(out[i], out[j])
			if err != nil && sortErr == nil {
				sortErr = err
			}
			return less
		})
		if sortErr != nil {
			return nil, errors.Wrap(sortErr, "sort")
		}
		return out, nil
	},

	"reverse": func(v any) (any, error) {
		seq, ok := v.([]any)
		if !ok {
			return nil, errors.Errorf("reverse: want a sequence, got %T", v)
		}
		out := make([]any, len(seq))
		for i, el := range seq {
			out[len(seq)-1-i] = el
		}
		return out, nil
	},

	"first": func(v any) (any, error) {
		seq, ok := v.([]any)
		if !ok {
			return nil, errors.Errorf("first: want a sequence, got %T", v)
		}
		if len(seq) == 0 {
			return nil, errors.New("first: empty sequence")
		}
		return seq[0], nil
	},

	"last": func(v any) (any, error) {
		seq, ok := v.([]any)
		if !ok {
			return nil, errors.Errorf("last: want a sequence, got %T", v)
		}
		if len(seq) == 0 {
			return nil, errors.New("last: empty sequence")
		}
		return seq[len(seq)-1], nil
	},
}

// scalarLess orders numbers before strings and strings lexically. Mixed
// non-scalar elements cannot be ordered.
func scalarLess(a, b any) (bool, error) {
	an, aNum := asNumber(a)
	bn, bNum := asNumber(b)
	as, aStr := a.(string)
	bs, bStr := b.(string)
	switch {
	case aNum && bNum:
		return an < bn, nil
	case aStr && bStr:
		return as < bs, nil
	case aNum && bStr:
		return true, nil
	case aStr && bNum:
		return false, nil
	default:
		return false, fmt.Errorf("cannot order %T and %T", a, b)
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}
