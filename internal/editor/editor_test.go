package editor

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		snapdir string
		editor  string
		visual  string
		want    string
	}{
		{"snapdir editor wins", "hx", "nvim", "code", "hx"},
		{"editor", "", "nvim", "code", "nvim"},
		{"visual", "", "", "code --wait", "code --wait"},
		{"blank treated as unset", "  ", "", "vscode", "vscode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvEditor, tt.snapdir)
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			if got := Detect(); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetect_Fallback(t *testing.T) {
	t.Setenv(EnvEditor, "")
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	want := "vi"
	if _, err := exec.LookPath("nano"); err == nil {
		want = "nano"
	}
	if got := Detect(); got != want {
		t.Errorf("Detect() = %q, want %q", got, want)
	}
}

func TestOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "config.yaml")

	var stdout bytes.Buffer
	e := &Editor{Command: script + " --wait", Stdout: &stdout}
	if err := e.Open(target); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := strings.TrimSpace(stdout.String()); got != "--wait "+target {
		t.Errorf("editor args = %q, want %q", got, "--wait "+target)
	}
}

func TestOpen_MissingBinary(t *testing.T) {
	e := &Editor{Command: "non-existent-binary-12345"}
	if err := e.Open("config.yaml"); err == nil {
		t.Error("expected error for a missing editor binary")
	}
}

func TestOpen_EmptyCommand(t *testing.T) {
	t.Setenv(EnvEditor, "")
	e := &Editor{Command: "   "}
	if err := e.Open("config.yaml"); err == nil {
		t.Error("expected error for a blank editor command")
	}
}
