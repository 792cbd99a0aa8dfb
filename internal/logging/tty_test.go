package logging

import (
	"os"
	"testing"
)

func TestColorAllowed(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"plain terminal", map[string]string{"TERM": "xterm-256color"}, true},
		{"NO_COLOR", map[string]string{"NO_COLOR": ""}, false},
		{"SNAPDIR_NO_COLOR", map[string]string{EnvNoColor: "1"}, false},
		{"dumb terminal", map[string]string{"TERM": "dumb"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"NO_COLOR", EnvNoColor, "TERM"} {
				t.Setenv(k, "")
				os.Unsetenv(k)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := colorAllowed(); got != tt.want {
				t.Errorf("colorAllowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&discardWriter{}) {
		t.Error("a writer without Fd is never a TTY")
	}

	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("a regular file is not a TTY")
	}
	if SupportsColor(f) {
		t.Error("a regular file does not support color")
	}
}

type discardWriter struct{}

func (*discardWriter) Write(p []byte) (int, error) { return len(p), nil }
