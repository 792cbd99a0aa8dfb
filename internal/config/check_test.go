package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/snapdir/internal/validator"
)

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(src, 0o755))
	notDir := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))

	cfg := Default()
	cfg.Sources = []SourceConfig{
		{Path: src, Alias: "f1"},
		{Path: filepath.Join(dir, "missing"), Alias: "f2"},
		{Path: notDir, Alias: "f3"},
	}
	locFile := filepath.Join(dir, "loc.txt")
	require.NoError(t, os.WriteFile(locFile, []byte("x"), 0o644))
	cfg.Locations = []string{filepath.Join(dir, "dest"), locFile}
	cfg.Workers = -1

	result := Check(cfg)

	errs := result.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "workers", errs[0].Field)
	assert.Equal(t, "must not be negative", errs[0].Message)
	assert.Equal(t, "-1", errs[0].Value)

	var warned []string
	for _, w := range result.Warnings() {
		warned = append(warned, w.Field)
	}
	assert.Equal(t, []string{"sources[1].path", "sources[2].path", "locations[1]"}, warned)

	infos := result.Infos()
	require.Len(t, infos, 1)
	assert.Equal(t, "locations[0]", infos[0].Field)
}

func TestCheck_NonFieldErrors(t *testing.T) {
	cfg := Default()
	cfg.Log.File = ""

	result := Check(cfg)
	require.Len(t, result.Errors(), 2)
	assert.Equal(t, "", result.Errors()[0].Field)
	assert.Equal(t, "at least one source is required", result.Errors()[0].Message)
	assert.Nil(t, result.Errors()[0].Value)

	infos := result.Infos()
	require.Len(t, infos, 1)
	assert.Equal(t, "log.file", infos[0].Field)
}

func TestCheck_Nil(t *testing.T) {
	result := Check(nil)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, validator.SeverityError, result.Issues[0].Severity)
}

func TestCheck_LocationInsideSource(t *testing.T) {
	home := t.TempDir()
	sibling := filepath.Join(t.TempDir(), "..data")

	cfg := Default()
	cfg.Sources = []SourceConfig{{Path: home, Alias: "home"}}
	cfg.Locations = []string{filepath.Join(home, "backups"), home, sibling}

	result := Check(cfg)
	require.False(t, result.HasErrors())

	var nested []string
	for _, w := range result.Warnings() {
		if strings.Contains(w.Message, "inside source home") {
			nested = append(nested, w.Field)
		}
	}
	assert.Equal(t, []string{"locations[0]", "locations[1]"}, nested)
}

func TestWithin(t *testing.T) {
	tests := []struct {
		dir, path string
		want      bool
	}{
		{"/home/u", "/home/u/backups", true},
		{"/home/u", "/home/u", true},
		{"/home/u", "/home/u/../u/x", true},
		{"/home/u", "/home/user", false},
		{"/home/u", "/home/u..bak", false},
		{"/home/u/docs", "/home/u", false},
		{"", "/home/u", false},
	}
	for _, tt := range tests {
		if got := within(tt.dir, tt.path); got != tt.want {
			t.Errorf("within(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}
