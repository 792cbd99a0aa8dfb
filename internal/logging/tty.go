package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// EnvNoColor disables color for snapdir only, like NO_COLOR does globally.
const EnvNoColor = "SNAPDIR_NO_COLOR"

// IsTTY reports whether w is a terminal. Any writer with an Fd method is
// checked, so wrapped files work too.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colors should be written to w.
// Color is off when w is not a terminal, NO_COLOR or SNAPDIR_NO_COLOR is
// set, or TERM is "dumb".
func SupportsColor(w io.Writer) bool {
	return colorAllowed() && IsTTY(w)
}

func colorAllowed() bool {
	for _, env := range []string{"NO_COLOR", EnvNoColor} {
		if _, ok := os.LookupEnv(env); ok {
			return false
		}
	}
	return os.Getenv("TERM") != "dumb"
}
