// Package editor launches the user's preferred text editor on a file.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

// ErrNoEditor is returned when no editor command can be found.
var ErrNoEditor = errors.New("no editor found; set $EDITOR")

// Editor runs an editor command with a file argument.
type Editor struct {
	// Args is the editor command and any leading arguments, e.g.
	// ["code", "--wait"].
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Detect builds an Editor from $EDITOR, then $VISUAL, then nano, then vi.
// The variables may carry arguments ("code --wait"); quoting is not
// interpreted. Streams default to the process's own.
func Detect() (*Editor, error) {
	args := strings.Fields(detectCommand(os.Getenv, exec.LookPath))
	if len(args) == 0 {
		return nil, ErrNoEditor
	}
	return &Editor{
		Args:   args,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

func detectCommand(getenv func(string) string, lookPath func(string) (string, error)) string {
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
	}
	for _, fallback := range []string{"nano", "vi"} {
		if _, err := lookPath(fallback); err == nil {
			return fallback
		}
	}
	return ""
}

// Open runs the editor on path and waits for it to exit.
func (e *Editor) Open(path string) error {
	if len(e.Args) == 0 {
		return ErrNoEditor
	}
	args := append(append([]string{}, e.Args[1:]...), path)
	cmd := exec.Command(e.Args[0], args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", e.Args[0])
	}
	return nil
}
