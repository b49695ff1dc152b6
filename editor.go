package refract

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/zoobzio/capitan"
)

// DefaultEditor is used when neither VISUAL nor EDITOR is set.
const DefaultEditor = "vi"

// editorCommand resolves the editor to spawn: the explicit command if given,
// then $VISUAL, then $EDITOR, then DefaultEditor.
func editorCommand(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return DefaultEditor
}

// openInEditor spawns the editor on the given paths without waiting for it
// to exit. The command string may carry arguments ("code --wait" style).
func openInEditor(ctx context.Context, command string, paths ...string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty editor command")
	}
	cmd := exec.Command(parts[0], append(parts[1:], paths...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "opening editor %s", parts[0])
	}
	capitan.Emit(ctx, EditorOpened,
		KeyEditor.Field(command),
	)
	// The editor outlives the call; reap it in the background.
	go cmd.Wait() //nolint:errcheck // Exit status of the editor is not ours to judge
	return nil
}
