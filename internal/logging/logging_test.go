package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/snapdir/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		wantJSON bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, true},
		{"unknown falls back to text", Format("xml"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Format: tt.format, Output: &buf})
			logger.Debug("dropped")
			logger.Info("copied", "alias", "f1")

			var rec map[string]any
			isJSON := json.Unmarshal(buf.Bytes(), &rec) == nil
			if isJSON != tt.wantJSON {
				t.Fatalf("JSON output = %v, want %v: %q", isJSON, tt.wantJSON, buf.String())
			}
			if strings.Contains(buf.String(), "dropped") {
				t.Errorf("debug record should be filtered: %q", buf.String())
			}
			if !strings.Contains(buf.String(), "copied") {
				t.Errorf("info record missing: %q", buf.String())
			}
		})
	}
}

func TestNewJSONHandler_TraceName(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewJSONHandler(&buf, LevelTrace))
	logger.Log(t.Context(), LevelTrace, "entering directory", "dir", "docs")
	logger.Error("copy failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, want := range []string{"TRACE", "ERROR"} {
		var rec map[string]any
		if err := json.Unmarshal([]byte(lines[i]), &rec); err != nil {
			t.Fatal(err)
		}
		if rec["level"] != want {
			t.Errorf("line %d level = %v, want %s", i, rec["level"], want)
		}
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("discard logger should not be enabled at any level")
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(t.Context(), LevelTrace) {
		t.Error("ForTest logger should capture trace records")
	}
	logger.Info("visible with -v")

	n, err := testWriter{t: t}.Write([]byte("line\n"))
	if err != nil || n != 5 {
		t.Errorf("Write() = %d, %v", n, err)
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity)
		if got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"ERROR", slog.LevelError, false},
		{"INFO", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"debug", slog.LevelDebug, false},
		{" Info ", slog.LevelInfo, false},
		{"WARN", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownLevel) {
					t.Errorf("expected ErrUnknownLevel, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "backup.log")

	w, err := OpenFile(FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelError}))
	logger.Info("not written")
	logger.Error("copy failed", "source", "/src/a")

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	output := string(data)
	if strings.Contains(output, "not written") {
		t.Errorf("info message should be filtered at ERROR level: %s", output)
	}
	if !strings.Contains(output, "copy failed") {
		t.Errorf("error message missing from log: %s", output)
	}
}

func TestOpenFile_Fresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.log")
	if err := os.WriteFile(path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := OpenFile(FileConfig{Path: path, Fresh: true})
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if _, err := w.Write([]byte("this run\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "this run\n" {
		t.Errorf("log content = %q, want only the new run", string(data))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected current log plus one rotated backup, got %d entries", len(entries))
	}
}

func TestOpenFile_EmptyPath(t *testing.T) {
	if _, err := OpenFile(FileConfig{}); err == nil {
		t.Error("OpenFile() with empty path should error")
	}
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(t.Context(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext should return the stored logger")
	}

	if got := FromContext(t.Context()); got != slog.Default() {
		t.Error("FromContext without a logger should return slog.Default()")
	}
}
