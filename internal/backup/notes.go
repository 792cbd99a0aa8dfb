package backup

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/pkg/fileutil"
)

// writeRecords writes the notes file and the manifest into root.
func writeRecords(root string, s *Summary) error {
	if err := fileutil.AtomicWriteFile(NotesPath(root), RenderNotes(s), 0o644); err != nil {
		return errors.Wrap(err, "writing notes file")
	}

	manifest := &Manifest{
		Version:        ManifestVersion,
		SnapdirVersion: Version,
		Summary:        *s,
	}
	if err := fileutil.AtomicWriteJSON(ManifestPath(root), manifest); err != nil {
		return errors.Wrap(err, "writing manifest")
	}
	return nil
}

// RenderNotes renders the human-readable notes file for a run.
func RenderNotes(s *Summary) []byte {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "Backup notes")
	fmt.Fprintln(&buf, "============")
	fmt.Fprintln(&buf)
	if s.Notes != "" {
		fmt.Fprintln(&buf, s.Notes)
		fmt.Fprintln(&buf)
	}

	tw := tabwriter.NewWriter(&buf, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", s.ID)
	fmt.Fprintf(tw, "Timestamp:\t%s\n", s.Timestamp)
	fmt.Fprintf(tw, "Started:\t%s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Finished:\t%s\n", s.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "State:\t%s\n", s.State())
	if s.Cancelled {
		fmt.Fprintf(tw, "Cancelled:\t%s\n", "yes")
	}
	tw.Flush()

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "Sources:")
	tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, src := range s.Sources {
		fmt.Fprintf(tw, "  %s\t%s\n", src.Alias, src.Path)
	}
	tw.Flush()

	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Copied: %d (%s)\n", s.Copied, humanize.Bytes(uint64(s.Bytes)))
	fmt.Fprintf(&buf, "Skipped: %d\n", s.Skipped)
	fmt.Fprintf(&buf, "Failed: %d\n", s.Failed)

	if len(s.Failures) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Failures:")
		for _, f := range s.Failures {
			fmt.Fprintf(&buf, "  %s\n", f.Detail())
		}
	}

	return buf.Bytes()
}
