package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/logging"
	"github.com/thoreinstein/snapdir/internal/report"
)

var (
	showOutput string
	showNotes  bool
)

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "text",
		"summary format: text, json, yaml, toml")
	showCmd.Flags().BoolVar(&showNotes, "notes", false,
		"print the run's backup_notes.txt instead of the summary")
	showCmd.Flags().StringSliceVarP(&locationFlag, "location", "l", nil,
		"backup location to read (default: first configured location)")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [timestamp]",
	Short: "Show the summary of a backup run",
	Long: `Show the summary of one run.

Without a timestamp, an interactive picker lists the runs when attached to
a terminal; otherwise the most recent run is shown.`,
	Example: `  # Pick a run interactively
  snapdir show

  # Show a specific run as YAML
  snapdir show 20260123_100712 -o yaml

  # Print the notes file of a run
  snapdir show 20260123_100712 --notes

  See Also:
    snapdir list - List previous runs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	locations, err := resolveLocations()
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		return errors.NewUserError(errors.New("no backup location"), "Pass --location or configure locations")
	}
	location := locations[0]

	var timestamp string
	if len(args) == 1 {
		timestamp = args[0]
	} else {
		manifests, err := backup.List(location)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(errors.Wrapf(err, "%s", location), "Run: snapdir run")
			}
			return errors.Wrapf(err, "listing backups in %s", location)
		}
		if logging.IsTTY(os.Stdin) && logging.IsTTY(cmd.OutOrStdout()) {
			m, err := pickRun(manifests)
			if err != nil {
				return err
			}
			if m == nil {
				return nil
			}
			timestamp = m.Timestamp
		} else {
			timestamp = manifests[0].Timestamp
		}
	}

	return runShowWithWriter(cmd.OutOrStdout(), location, timestamp, showOutput, showNotes)
}

func runShowWithWriter(w io.Writer, location, timestamp, output string, notes bool) error {
	m, err := backup.Get(location, timestamp)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(err, "Run: snapdir list")
		}
		return errors.Wrapf(err, "loading backup %s", timestamp)
	}

	if notes {
		data, err := os.ReadFile(backup.NotesPath(m.Root))
		if err != nil {
			return errors.Wrap(err, "reading notes file")
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "writing notes")
	}

	format, err := report.ParseFormat(output)
	if err != nil {
		return errors.NewUserError(err, "Valid formats: text, json, yaml, toml")
	}
	return report.Write(w, &m.Summary, format)
}

// pickRun lets the user choose a run. It returns nil if the picker was
// aborted.
func pickRun(manifests []backup.Manifest) (*backup.Manifest, error) {
	idx, err := fuzzyfinder.Find(
		manifests,
		func(i int) string {
			m := manifests[i]
			return fmt.Sprintf("%s  %s  %s", m.Timestamp, m.State(), m.Notes)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return string(backup.RenderNotes(&manifests[i].Summary))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}
	return &manifests[idx], nil
}
