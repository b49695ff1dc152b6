package refract

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// DefaultDepth is the default nesting depth for console rendering.
const DefaultDepth = 5

const (
	colorKey    = "\x1b[36m"
	colorString = "\x1b[32m"
	colorNumber = "\x1b[33m"
	colorAtom   = "\x1b[35m"
	colorElide  = "\x1b[90m"
	colorReset  = "\x1b[0m"
)

// Renderer prints a JSON value tree with indentation, eliding collections
// nested deeper than MaxDepth:
//
//	[1, 2, {"x": [3, 4], "y": 2}]
//
// at MaxDepth=2 renders the inner array as [...]. Output is buffered and
// written in a single call.
type Renderer struct {
	out      io.Writer
	maxDepth int
	color    bool
}

// NewRenderer creates a renderer writing to out. maxDepth values below 1
// fall back to DefaultDepth.
func NewRenderer(out io.Writer, maxDepth int, color bool) *Renderer {
	if maxDepth < 1 {
		maxDepth = DefaultDepth
	}
	return &Renderer{out: out, maxDepth: maxDepth, color: color}
}

// Render writes v followed by a newline.
func (r *Renderer) Render(v any) error {
	var buf bytes.Buffer
	r.value(&buf, v, 0)
	buf.WriteByte('\n')
	_, err := r.out.Write(buf.Bytes())
	return err
}

func (r *Renderer) value(buf *bytes.Buffer, v any, depth int) {
	switch t := v.(type) {
	case map[string]any:
		r.object(buf, t, depth)
	case []any:
		r.array(buf, t, depth)
	default:
		r.scalar(buf, v)
	}
}

func (r *Renderer) object(buf *bytes.Buffer, obj map[string]any, depth int) {
	if len(obj) == 0 {
		buf.WriteString("{}")
		return
	}
	if depth >= r.maxDepth {
		r.paint(buf, colorElide, "{...}")
		return
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteString("{\n")
	for i, k := range keys {
		buf.WriteString(indent(depth + 1))
		r.paint(buf, colorKey, oj.JSON(k))
		buf.WriteString(": ")
		r.value(buf, obj[k], depth+1)
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent(depth))
	buf.WriteByte('}')
}

func (r *Renderer) array(buf *bytes.Buffer, seq []any, depth int) {
	if len(seq) == 0 {
		buf.WriteString("[]")
		return
	}
	if depth >= r.maxDepth {
		r.paint(buf, colorElide, "[...]")
		return
	}
	buf.WriteString("[\n")
	for i, el := range seq {
		buf.WriteString(indent(depth + 1))
		r.value(buf, el, depth+1)
		if i < len(seq)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent(depth))
	buf.WriteByte(']')
}

func (r *Renderer) scalar(buf *bytes.Buffer, v any) {
	text := oj.JSON(v)
	switch v.(type) {
	case string:
		r.paint(buf, colorString, text)
	case bool, nil:
		r.paint(buf, colorAtom, text)
	default:
		r.paint(buf, colorNumber, text)
	}
}

func (r *Renderer) paint(buf *bytes.Buffer, color, text string) {
	if !r.color {
		buf.WriteString(text)
		return
	}
	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
