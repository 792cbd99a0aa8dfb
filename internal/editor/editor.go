// Package editor launches the user's preferred text editor on a file.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/snapdir/internal/errors"
)

// EnvEditor overrides $EDITOR and $VISUAL for snapdir only.
const EnvEditor = "SNAPDIR_EDITOR"

// Editor runs an editor command attached to the given streams.
type Editor struct {
	// Command is the editor command line, e.g. "code --wait". When empty,
	// it is detected from the environment on each Open.
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Editor attached to the process's standard streams.
func New() *Editor {
	return &Editor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Open runs the editor on path and waits for it to exit.
func (e *Editor) Open(path string) error {
	command := e.Command
	if command == "" {
		command = Detect()
	}
	args := strings.Fields(command)
	if len(args) == 0 {
		return errors.New("no editor configured")
	}

	cmd := exec.Command(args[0], append(args[1:], path)...) //nolint:gosec // the editor is chosen by the user
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", args[0])
	}
	return nil
}

// Detect returns the editor command line to use.
// Fallback chain: $SNAPDIR_EDITOR, $EDITOR, $VISUAL, nano, vi.
func Detect() string {
	for _, env := range []string{EnvEditor, "EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
