package refract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, v any, depth int, color bool) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, depth, color).Render(v))
	return buf.String()
}

func TestRenderer_Scalars(t *testing.T) {
	tcs := map[string]struct {
		in   any
		want string
	}{
		"string": {"hi", "\"hi\"\n"},
		"number": {int64(42), "42\n"},
		"bool":   {true, "true\n"},
		"null":   {nil, "null\n"},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, tc.in, 5, false))
		})
	}
}

func TestRenderer_SortsObjectKeys(t *testing.T) {
	out := render(t, map[string]any{"b": int64(2), "a": int64(1)}, 5, false)
	assert.Less(t, strings.Index(out, "\"a\""), strings.Index(out, "\"b\""))
}

func TestRenderer_ElidesBeyondMaxDepth(t *testing.T) {
	doc := []any{int64(1), int64(2), map[string]any{
		"x": []any{int64(3), int64(4)},
		"y": int64(2),
	}}

	tcs := map[string]struct {
		depth   int
		present []string
		absent  []string
	}{
		"depth 1 elides nested object": {
			depth:   1,
			present: []string{"{...}"},
			absent:  []string{"\"x\""},
		},
		"depth 2 elides nested array": {
			depth:   2,
			present: []string{"\"x\"", "[...]", "\"y\": 2"},
			absent:  []string{"3"},
		},
		"depth 3 shows everything": {
			depth:   3,
			present: []string{"\"x\"", "3", "4"},
			absent:  []string{"[...]", "{...}"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			out := render(t, doc, tc.depth, false)
			for _, s := range tc.present {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderer_EmptyContainers(t *testing.T) {
	assert.Equal(t, "{}\n", render(t, map[string]any{}, 1, false))
	assert.Equal(t, "[]\n", render(t, []any{}, 1, false))
}

func TestRenderer_ColorCodes(t *testing.T) {
	plain := render(t, map[string]any{"a": "x"}, 5, false)
	assert.NotContains(t, plain, "\x1b[")

	colored := render(t, map[string]any{"a": "x"}, 5, true)
	assert.Contains(t, colored, colorKey)
	assert.Contains(t, colored, colorReset)
}
