package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/cli/prompt"
	"github.com/thoreinstein/snapdir/internal/errors"
)

var (
	pruneKeep int
	pruneYes  bool
)

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultRetentionCount,
		"Number of runs to retain per location")
	pruneCmd.Flags().BoolVarP(&pruneYes, "yes", "y", false,
		"do not ask for confirmation")
	pruneCmd.Flags().StringSliceVarP(&locationFlag, "location", "l", nil,
		"backup location(s) to prune (default: all configured locations)")
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backup runs",
	Long: `Remove old runs beyond the retention count.

By default, keeps the 5 most recent runs in each location and removes older
ones. Runs are never removed by 'snapdir run'; pruning only happens here.

Incomplete runs (a run directory without a manifest, left by an
interrupted run) are removed as well when a newer complete run exists.
They do not count towards --keep.

When stdin is a terminal, asks for confirmation first unless --yes is given.`,
	Example: `  # Keep the default (5) runs in each location
  snapdir prune

  # Keep only the 3 most recent runs
  snapdir prune --keep 3

  # Remove every run in one location
  snapdir prune --keep 0 --location /mnt/backup1

  See Also:
    snapdir list - List previous runs`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	locations, err := resolveLocations()
	if err != nil {
		return err
	}
	if !pruneYes && term.IsTerminal(int(os.Stdin.Fd())) {
		ok, err := confirmPrune(prompt.NewConfirmer(), locations, pruneKeep)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}
	return runPruneWithWriter(cmd.OutOrStdout(), locations, pruneKeep)
}

// confirmPrune asks before removing anything. It returns true without
// asking when there is nothing to remove.
func confirmPrune(c *prompt.Confirmer, locations []string, keep int) (bool, error) {
	if keep < 0 {
		return true, nil
	}

	doomed := 0
	for _, loc := range locations {
		roots, err := backup.PruneCandidates(loc, keep)
		if err != nil {
			return false, errors.Wrapf(err, "listing %s", loc)
		}
		doomed += len(roots)
	}
	if doomed == 0 {
		return true, nil
	}

	ok, err := c.Confirm(fmt.Sprintf("Remove %d backup run(s) from %d location(s)?", doomed, len(locations)), false)
	if errors.Is(err, prompt.ErrCancelled) {
		return false, nil
	}
	return ok, err
}

func runPruneWithWriter(w io.Writer, locations []string, keep int) error {
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	pruned := 0
	for _, loc := range locations {
		removed, err := backup.Prune(loc, keep)
		for _, root := range removed {
			fmt.Fprintf(w, "%s removed %s\n", styleOK("✓"), root)
		}
		pruned += len(removed)
		if err != nil {
			return errors.Wrapf(err, "pruning %s", loc)
		}
	}

	if pruned == 0 {
		fmt.Fprintln(w, "No backups to prune")
	} else {
		fmt.Fprintf(w, "\nTotal: removed %d backup(s)\n", pruned)
	}
	return nil
}
