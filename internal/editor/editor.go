// Package editor stages text in a temporary file and hands it to the
// user's external editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const defaultEditor = "vi"

// Command returns the editor command to invoke: $VISUAL, then $EDITOR,
// then vi.
func Command() string {
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return defaultEditor
}

// Edit writes initial to a temp file, opens it in the user's editor, and
// returns the edited text. The temp file is removed on every path,
// including editor failure.
func Edit(initial string) (string, error) {
	return editWith(Command(), initial)
}

func editWith(command, initial string) (string, error) {
	f, err := os.CreateTemp("", "linkpad-*.md")
	if err != nil {
		return "", fmt.Errorf("stage edit file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("stage edit file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("stage edit file: %w", err)
	}

	// $EDITOR may carry arguments ("code --wait").
	parts := strings.Fields(command)
	args := append(parts[1:], path)
	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q: %w", command, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(edited), nil
}
