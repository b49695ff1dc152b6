package refract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditorCommand(t *testing.T) {
	tests := map[string]struct {
		explicit string
		visual   string
		editor   string
		expected string
	}{
		"explicit wins over environment": {
			explicit: "code --wait",
			visual:   "nvim",
			editor:   "nano",
			expected: "code --wait",
		},
		"VISUAL wins over EDITOR": {
			visual:   "nvim",
			editor:   "nano",
			expected: "nvim",
		},
		"EDITOR when VISUAL unset": {
			editor:   "nano",
			expected: "nano",
		},
		"default when nothing set": {
			expected: DefaultEditor,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("VISUAL", tt.visual)
			t.Setenv("EDITOR", tt.editor)
			assert.Equal(t, tt.expected, editorCommand(tt.explicit))
		})
	}
}

func TestOpenInEditor_EmptyCommand(t *testing.T) {
	err := openInEditor(context.Background(), "   ")
	assert.Error(t, err)
}

func TestOpenInEditor_SpawnFailure(t *testing.T) {
	err := openInEditor(context.Background(), "refract-no-such-editor-binary", "file.yaml")
	assert.Error(t, err)
}
