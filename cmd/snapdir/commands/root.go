// Package commands implements the CLI commands for snapdir.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapdir/cmd"
	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/config"
	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/logging"
)

// configPath holds the value of the --config flag.
var configPath string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// loadedConfig and configLoadErr hold the result of loading the
// configuration; commands that need it call requireConfig.
var (
	loadedConfig  *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: ./snapdir.yaml, then $XDG_CONFIG_HOME/snapdir/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase console verbosity (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"console log format: text, json")

	// Manifests record the version that wrote them.
	backup.Version = cmd.Version
	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("snapdir version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configPath)
}

var rootCmd = &cobra.Command{
	Use:   "snapdir",
	Short: "Configuration-driven directory backups",
	Long: `snapdir copies one or more source directories into timestamped backup
directories under one or more backup locations.

Every run creates <location>/<timestamp>/<alias> for each configured source,
skips files matching the exclusion patterns, and writes backup_notes.txt
with the run's notes and counts into each timestamped directory.

A failure to copy one file, one source or one location never stops the
rest of the run; it is logged and counted instead.`,
	Example: `  # Run a backup with ./snapdir.yaml
  snapdir run

  # Run with a specific configuration and notes
  snapdir run --config nightly.yaml --notes "before upgrade"

  # List previous runs
  snapdir list

  See Also: snapdir config, snapdir show`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the console logger based on verbosity flags.
// The run log file is attached separately by the run command.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"),
			"Use either --quiet or --verbose")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("SNAPDIR_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	var format logging.Format
	switch logging.Format(logFormat) {
	case logging.FormatText, logging.FormatJSON:
		format = logging.Format(logFormat)
	default:
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat),
			"Valid formats: text, json")
	}

	logger := logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// requireConfig returns the loaded configuration, or the load error as a
// configuration ExitError.
func requireConfig() (*config.Config, error) {
	if configLoadErr != nil {
		return nil, errors.NewConfigError(configLoadErr)
	}
	if loadedConfig == nil {
		return nil, errors.NewConfigError(errors.New("configuration not loaded"))
	}
	return loadedConfig, nil
}

// PrintError writes err and any suggestion it carries to w.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %v\n", red("Error:"), err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt so a running backup stops dispatching new work.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
