package refract

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuery(t *testing.T, expr string) Step {
	t.Helper()
	step, err := Query(expr)
	require.NoError(t, err)
	return step
}

func TestApply_QueryAlwaysYieldsSequence(t *testing.T) {
	doc := map[string]any{"a": int64(1)}
	p := Pipeline{mustQuery(t, "$.a")}

	got, err := p.Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1)}, got, "a single match must still be a one-element sequence")
}

func TestApply_TransformMapsOverSequence(t *testing.T) {
	doc := map[string]any{"items": []any{int64(1), int64(2), int64(3)}}
	double := Transform("double", func(v any) (any, error) {
		return v.(int64) * 2, nil
	})
	p := Pipeline{mustQuery(t, "$.items[*]"), double}

	got, err := p.Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(4), int64(6)}, got)
}

func TestApply_TransformOnScalarAppliesOnce(t *testing.T) {
	var calls int
	p := Pipeline{Transform("count", func(v any) (any, error) {
		calls++
		return v, nil
	})}

	got, err := p.Apply(map[string]any{"a": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1)}, got)
	assert.Equal(t, 1, calls)
}

func TestApply_OrderIsSignificant(t *testing.T) {
	doc := map[string]any{"items": []any{int64(3), int64(1), int64(2)}}
	sortFn, ok := NewRegistry().Lookup("sort")
	require.True(t, ok)
	firstFn, ok := NewRegistry().Lookup("first")
	require.True(t, ok)

	// sort then first yields the minimum; reversing the steps would not.
	p := Pipeline{
		mustQuery(t, "$.items"),
		Transform("sort", sortFn),
		Transform("first", firstFn),
	}

	got, err := p.Apply(doc)
	require.NoError(t, err)
	// $.items matches once, so the stage is [[3,1,2]]; sort and first map
	// over that one element.
	assert.Equal(t, []any{int64(1)}, got)
}

func TestApply_Deterministic(t *testing.T) {
	doc := map[string]any{
		"items": []any{
			map[string]any{"name": "b", "price": 12.5},
			map[string]any{"name": "a", "price": 3.0},
		},
	}
	p := Pipeline{mustQuery(t, "$.items[*].name")}

	first, err := p.Apply(doc)
	require.NoError(t, err)
	second, err := p.Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApply_NilPipelinePassesThrough(t *testing.T) {
	doc := map[string]any{"a": int64(1)}

	got, err := Pipeline(nil).Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestApply_TransformErrorIdentifiesStep(t *testing.T) {
	boom := errors.New("boom")
	p := Pipeline{
		mustQuery(t, "$.items[*]"),
		Transform("explode", func(any) (any, error) { return nil, boom }),
	}
	doc := map[string]any{"items": []any{int64(1)}}

	_, err := p.Apply(doc)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)
	assert.ErrorIs(t, err, boom)
}

func TestApply_InvalidStepFailsWholeRun(t *testing.T) {
	tcs := map[string]struct {
		pipeline Pipeline
		index    int
	}{
		"zero step":        {Pipeline{Step{}}, 0},
		"nil transform":    {Pipeline{Step{Kind: StepTransform, Name: "x"}}, 0},
		"after valid step": {Pipeline{mustQuery(t, "$"), Step{}}, 1},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := tc.pipeline.Apply(map[string]any{"a": int64(1)})
			require.Error(t, err)

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tc.index, stepErr.Index)
		})
	}
}

func TestApply_RecursiveDescentAndFilter(t *testing.T) {
	doc := map[string]any{
		"store": map[string]any{
			"books": []any{
				map[string]any{"title": "cheap", "price": int64(5)},
				map[string]any{"title": "dear", "price": int64(50)},
			},
		},
	}

	tcs := map[string]struct {
		expr string
		want []any
	}{
		"recursive descent": {"$..title", []any{"cheap", "dear"}},
		"filter":            {"$.store.books[?(@.price > 10)].title", []any{"dear"}},
		"slice":             {"$.store.books[0:1].title", []any{"cheap"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			p := Pipeline{mustQuery(t, tc.expr)}
			got, err := p.Apply(doc)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}
