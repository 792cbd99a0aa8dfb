package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/config"
	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/logging"
	"github.com/thoreinstein/snapdir/internal/report"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	notes      string
	notesSet   bool
	output     string
	workers    int
	noProgress bool
}

var runFlags runOptions

func init() {
	runCmd.Flags().StringVar(&runFlags.notes, "notes", "",
		"notes written into every backup_notes.txt (overrides the config)")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "text",
		"summary format: text, json, yaml, toml")
	runCmd.Flags().IntVar(&runFlags.workers, "workers", 0,
		"number of sources copied concurrently (overrides the config)")
	runCmd.Flags().BoolVar(&runFlags.noProgress, "no-progress", false,
		"do not show the progress line")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backup",
	Long: `Run a backup of every configured source into every configured location.

All locations of one run share a single timestamp. The run continues past
individual failures; the command exits with status 2 if any file, source
or location failed, after printing the summary.`,
	Example: `  # Back up using the discovered configuration
  snapdir run

  # Annotate the run
  snapdir run --notes "before OS upgrade"

  # Machine-readable summary
  snapdir run -o json

  See Also:
    snapdir list - List previous runs
    snapdir show - Show the summary of a previous run`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	opts := runFlags
	opts.notesSet = cmd.Flags().Changed("notes")
	opts.noProgress = opts.noProgress || quiet

	var p *progress
	if !opts.noProgress && logging.IsTTY(cmd.ErrOrStderr()) {
		p = newProgress(cmd.ErrOrStderr())
	}

	return runBackup(cmd.Context(), cmd.OutOrStdout(), cfg, opts, p)
}

// runBackup performs one backup with cfg and renders its summary to w.
func runBackup(ctx context.Context, w io.Writer, cfg *config.Config, opts runOptions, p *progress) error {
	format, err := report.ParseFormat(opts.output)
	if err != nil {
		return errors.NewUserError(err, "Valid formats: text, json, yaml, toml")
	}

	filter, err := cfg.Filter()
	if err != nil {
		return errors.NewConfigError(err)
	}

	logger := logging.FromContext(ctx)
	if cfg.Log.File != "" {
		level, err := cfg.LogLevel()
		if err != nil {
			return errors.NewConfigError(err)
		}

		lf, err := logging.OpenFile(cfg.LogFile())
		if err != nil {
			return errors.NewSystemError(errors.Wrap(err, "opening log file"), "Check the log.file setting")
		}
		defer lf.Close()

		// File output uses JSON format
		logger = slog.New(logging.NewMultiHandler(
			logger.Handler(),
			logging.NewJSONHandler(lf, level),
		))
	}

	notes := cfg.Notes
	if opts.notesSet {
		notes = opts.notes
	}
	workers := cfg.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	sessionOpts := []backup.Option{
		backup.WithSources(cfg.BackupSources()...),
		backup.WithLocations(cfg.Locations...),
		backup.WithFilter(filter),
		backup.WithNotes(notes),
		backup.WithLogger(logger),
		backup.WithWorkers(workers),
	}
	if p != nil {
		sessionOpts = append(sessionOpts, backup.WithObserver(p))
	}

	summary, runErr := backup.NewSession(sessionOpts...).Run(ctx)
	if p != nil {
		p.Done()
	}
	if summary == nil {
		return errors.NewConfigError(runErr)
	}

	if err := report.Write(w, summary, format); err != nil {
		return errors.Wrap(err, "writing summary")
	}

	if runErr != nil {
		return errors.NewSystemError(runErr, "Run again to take a complete backup")
	}
	if summary.HasFailures() {
		suggestion := ""
		if cfg.Log.File != "" {
			suggestion = "See " + cfg.Log.File + " for details"
		}
		return errors.NewSystemError(
			errors.Newf("backup %s finished with %d failed outcome(s)", summary.Timestamp, summary.Failed),
			suggestion)
	}
	return nil
}
