package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/logging"
)

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() {
		quiet, verbosity, logFormat = false, 0, "text"
	})

	tests := []struct {
		name      string
		quiet     bool
		verbosity int
		format    string
		wantErr   bool
	}{
		{name: "defaults", format: "text"},
		{name: "json", format: "json", verbosity: 2},
		{name: "quiet", quiet: true, format: "text"},
		{name: "quiet and verbose", quiet: true, verbosity: 1, format: "text", wantErr: true},
		{name: "bad format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiet, verbosity, logFormat = tt.quiet, tt.verbosity, tt.format

			var stderr bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetErr(&stderr)
			cmd.SetContext(t.Context())

			err := setupLogging(cmd)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
				return
			}
			require.NoError(t, err)

			logger := logging.FromContext(cmd.Context())
			logger.Error("copy failed", "source", "/a")
			assert.Contains(t, stderr.String(), "copy failed")
		})
	}
}

func TestRequireConfig(t *testing.T) {
	prevCfg, prevErr := loadedConfig, configLoadErr
	t.Cleanup(func() { loadedConfig, configLoadErr = prevCfg, prevErr })

	loadedConfig, configLoadErr = nil, errors.Mark(errors.New("validating config: boom"), errors.ErrInvalidConfig)
	_, err := requireConfig()
	require.Error(t, err)

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "Run: snapdir config validate", exitErr.Suggestion)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	cfg := testConfig(t)
	loadedConfig, configLoadErr = cfg, nil
	got, err := requireConfig()
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.NewSystemError(errors.New("backup finished with 1 failed outcome(s)"), "See backup.log for details"))

	assert.Contains(t, buf.String(), "Error: backup finished with 1 failed outcome(s)\n")
	assert.Contains(t, buf.String(), "  See backup.log for details\n")
}
