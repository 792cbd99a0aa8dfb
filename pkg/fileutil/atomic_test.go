package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{name: "text", data: []byte("Backup notes\n"), perm: 0o644},
		{name: "empty", data: []byte{}, perm: 0o644},
		{name: "binary", data: []byte{0x00, 0x01, 0xFF}, perm: 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")

			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stating file: %v", err)
			}
			if gotPerm := info.Mode().Perm(); gotPerm != tt.perm {
				t.Errorf("permissions = %o, want %o", gotPerm, tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup_notes.txt")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Errorf("content = %q, want %q", got, "new\n")
	}
}

func TestAtomicWriteFile_Failures(t *testing.T) {
	t.Run("missing parent", func(t *testing.T) {
		dir := t.TempDir()
		if err := AtomicWriteFile(filepath.Join(dir, "missing", "f"), []byte("x"), 0o644); err == nil {
			t.Error("expected error for missing parent directory")
		}
	})

	t.Run("target is a directory", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "target")
		if err := os.MkdirAll(filepath.Join(target, "child"), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := AtomicWriteFile(target, []byte("x"), 0o644); err == nil {
			t.Fatal("expected error when target is a non-empty directory")
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tmp") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}

func TestAtomicWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")

	v := struct {
		Version int    `json:"version"`
		ID      string `json:"id"`
	}{Version: 1, ID: "run-1"}

	if err := AtomicWriteJSON(path, v); err != nil {
		t.Fatalf("AtomicWriteJSON() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"version\": 1,\n  \"id\": \"run-1\"\n}\n"
	if string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	if err := AtomicWriteJSON(path, make(chan int)); err == nil {
		t.Error("expected error for unmarshalable value")
	}
	after, _ := os.ReadFile(path)
	if string(after) != want {
		t.Error("failed marshal must leave the existing file untouched")
	}
}

func TestAtomicWriteYAML(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantYAML string
		wantErr  bool
	}{
		{
			name: "tagged struct",
			value: struct {
				Locations []string `yaml:"locations"`
			}{Locations: []string{"/mnt/a"}},
			wantYAML: "locations:\n    - /mnt/a\n",
		},
		{
			name:     "map",
			value:    map[string]int{"workers": 4},
			wantYAML: "workers: 4\n",
		},
		{
			name:    "unmarshalable func",
			value:   func() {},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")

			err := AtomicWriteYAML(path, tt.value, 0o600)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AtomicWriteYAML() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if _, err := os.Stat(path); err == nil {
					t.Error("file should not exist after marshal error")
				}
				return
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.wantYAML {
				t.Errorf("content = %q, want %q", got, tt.wantYAML)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if gotPerm := info.Mode().Perm(); gotPerm != 0o600 {
				t.Errorf("permissions = %o, want 0600", gotPerm)
			}
		})
	}
}
