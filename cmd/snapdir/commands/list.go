package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringSliceVarP(&locationFlag, "location", "l", nil,
		"backup location(s) to list (default: all configured locations)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List previous backup runs",
	Long: `List the runs recorded in each backup location, newest first.

A run is any timestamped directory holding a manifest.json. Directories
left by interrupted runs without a manifest are not shown.`,
	Example: `  # List runs in every configured location
  snapdir list

  # List runs in one location
  snapdir list --location /mnt/backup1

  # Output as JSON
  snapdir list --json

  See Also:
    snapdir show  - Show the summary of a run
    snapdir prune - Remove old runs`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listOutput represents the JSON output for one location.
type listOutput struct {
	Location string       `json:"location"`
	Runs     []runSummary `json:"runs"`
}

// runSummary represents a single run in JSON output.
type runSummary struct {
	Timestamp string    `json:"timestamp"`
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	State     string    `json:"state"`
	Copied    int       `json:"copied"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Bytes     int64     `json:"bytes"`
	Notes     string    `json:"notes,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	locations, err := resolveLocations()
	if err != nil {
		return err
	}
	return runListWithWriter(cmd.OutOrStdout(), locations, listJSON)
}

func runListWithWriter(w io.Writer, locations []string, asJSON bool) error {
	catalog := make([]listOutput, 0, len(locations))
	for _, loc := range locations {
		manifests, err := backup.List(loc)
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Wrapf(err, "listing backups in %s", loc)
		}

		runs := make([]runSummary, len(manifests))
		for i, m := range manifests {
			runs[i] = runSummary{
				Timestamp: m.Timestamp,
				ID:        m.ID,
				StartedAt: m.StartedAt,
				State:     m.State().String(),
				Copied:    m.Copied,
				Skipped:   m.Skipped,
				Failed:    m.Failed,
				Bytes:     m.Bytes,
				Notes:     m.Notes,
			}
		}
		catalog = append(catalog, listOutput{Location: loc, Runs: runs})
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(catalog), "encoding output")
	}
	return outputListTabular(w, catalog)
}

func outputListTabular(w io.Writer, catalog []listOutput) error {
	for i, entry := range catalog {
		// Add blank line between locations (but not before first)
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", styleHeader("Location: "+entry.Location))

		if len(entry.Runs) == 0 {
			fmt.Fprintf(w, "  %s\n", styleMuted("(no backups)"))
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			styleBold("TIMESTAMP"), styleBold("STARTED"), styleBold("STATE"),
			styleBold("COPIED"), styleBold("SKIPPED"), styleBold("FAILED"), styleBold("SIZE"))
		for _, r := range entry.Runs {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				r.Timestamp,
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				styleState(r.State),
				r.Copied, r.Skipped, r.Failed,
				humanize.Bytes(uint64(max(r.Bytes, 0))))
		}
		tw.Flush()
	}
	return nil
}

// styleState colors a run state name.
func styleState(state string) string {
	switch state {
	case backup.StateSucceeded.String():
		return styleOK(state)
	case backup.StatePartial.String():
		return styleWarn(state)
	default:
		return styleFail(state)
	}
}
