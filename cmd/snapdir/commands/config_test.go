package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/snapdir/internal/config"
	"github.com/thoreinstein/snapdir/internal/editor"
	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/paths"
)

func TestValidateWithWriter(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, validateWithWriter(&buf, testConfig(t), "snapdir.yaml", false))
		assert.Contains(t, buf.String(), "snapdir.yaml is valid")
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := config.Default()
		cfg.Workers = -1

		var buf bytes.Buffer
		err := validateWithWriter(&buf, cfg, "", false)
		require.Error(t, err)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
		assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

		out := buf.String()
		assert.Contains(t, out, "defaults (no configuration file found) is invalid: 3 error(s)")
		assert.Contains(t, out, "  • at least one source is required\n")
		assert.Contains(t, out, "  • workers: must not be negative [-1]\n")
	})

	t.Run("warnings do not fail", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Sources = append(cfg.Sources, config.SourceConfig{Path: filepath.Join(t.TempDir(), "gone"), Alias: "gone"})

		var buf bytes.Buffer
		require.NoError(t, validateWithWriter(&buf, cfg, "snapdir.yaml", false))
		assert.Contains(t, buf.String(), "snapdir.yaml is valid: 1 warning(s)")
		assert.Contains(t, buf.String(), "Warnings:")
	})

	t.Run("json", func(t *testing.T) {
		cfg := config.Default()

		var buf bytes.Buffer
		err := validateWithWriter(&buf, cfg, "", true)
		require.Error(t, err)

		var got struct {
			Issues []struct {
				Severity string `json:"severity"`
				Message  string `json:"message"`
			} `json:"issues"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Issues, 2)
		assert.Equal(t, "error", got.Issues[0].Severity)
		assert.Equal(t, "at least one backup location is required", got.Issues[1].Message)
	})
}

func TestEditConfigFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"edited $1\"\n"), 0o755))
	path := filepath.Join(dir, "conf", "config.yaml")

	var buf, editorOut bytes.Buffer
	ed := &editor.Editor{Command: script, Stdout: &editorOut}
	require.NoError(t, editConfigFile(&buf, ed, path))

	assert.Contains(t, buf.String(), "wrote "+path)
	assert.Contains(t, buf.String(), "Location: "+path)
	assert.Equal(t, "edited "+path+"\n", editorOut.String())

	// An existing file is opened as is.
	buf.Reset()
	require.NoError(t, editConfigFile(&buf, ed, path))
	assert.NotContains(t, buf.String(), "wrote")

	err := editConfigFile(&buf, &editor.Editor{Command: "non-existent-binary-12345"}, path)
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, errors.ExitCode(err))
}

func TestInitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	var buf bytes.Buffer
	require.NoError(t, initConfigFile(&buf, path, false))
	assert.Contains(t, buf.String(), "wrote "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// The starter file loads and validates.
	t.Setenv(paths.ConfigDirEnv, t.TempDir())
	config.Init()
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "documents", cfg.Sources[0].Alias)

	err = initConfigFile(&buf, path, false)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	require.NoError(t, initConfigFile(&buf, path, true))
}

func TestWriteConfigYAML(t *testing.T) {
	cfg := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, writeConfigYAML(&buf, cfg))

	out := buf.String()
	assert.Contains(t, out, "alias: f1")
	assert.Contains(t, out, "level: INFO")
	assert.Contains(t, out, "notes: Backup test")
	assert.Contains(t, out, "- .sdf")
}
