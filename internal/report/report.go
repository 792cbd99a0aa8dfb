// Package report renders the summary of a backup run for people and tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/errors"
)

// Format selects how a summary is rendered.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for a format name outside the supported set.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatTOML)}
}

// ParseFormat validates a format name. Matching is case-insensitive.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q (valid: %s)", name, strings.Join(Formats(), ", "))
}

// Summary is the serialized form of a run summary.
type Summary struct {
	ID         string    `json:"id" yaml:"id" toml:"id"`
	Timestamp  string    `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	State      string    `json:"state" yaml:"state" toml:"state"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at" toml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at" toml:"finished_at"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	Cancelled  bool      `json:"cancelled,omitempty" yaml:"cancelled,omitempty" toml:"cancelled,omitempty"`
	Copied     int       `json:"copied" yaml:"copied" toml:"copied"`
	Skipped    int       `json:"skipped" yaml:"skipped" toml:"skipped"`
	Failed     int       `json:"failed" yaml:"failed" toml:"failed"`
	Bytes      int64     `json:"bytes" yaml:"bytes" toml:"bytes"`
	Roots      []string  `json:"roots" yaml:"roots" toml:"roots"`
	Sources    []Source  `json:"sources" yaml:"sources" toml:"sources"`
	Failures   []Failure `json:"failures,omitempty" yaml:"failures,omitempty" toml:"failures,omitempty"`
}

// Source is one configured source of the run.
type Source struct {
	Alias string `json:"alias" yaml:"alias" toml:"alias"`
	Path  string `json:"path" yaml:"path" toml:"path"`
}

// Failure is one failed outcome.
type Failure struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Dest   string `json:"dest,omitempty" yaml:"dest,omitempty" toml:"dest,omitempty"`
	Error  string `json:"error" yaml:"error" toml:"error"`
}

// FromSummary converts a run summary into its serialized form.
func FromSummary(s *backup.Summary) Summary {
	out := Summary{
		ID:         s.ID,
		Timestamp:  s.Timestamp,
		State:      s.State().String(),
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Notes:      s.Notes,
		Cancelled:  s.Cancelled,
		Copied:     s.Copied,
		Skipped:    s.Skipped,
		Failed:     s.Failed,
		Bytes:      s.Bytes,
		Roots:      append([]string{}, s.Roots...),
		Sources:    make([]Source, len(s.Sources)),
	}
	for i, src := range s.Sources {
		out.Sources[i] = Source{Alias: src.Alias, Path: src.Path}
	}
	for _, f := range s.Failures {
		out.Failures = append(out.Failures, Failure{Source: f.Source, Dest: f.Dest, Error: f.Detail()})
	}
	return out
}

// Write renders s to w in the given format.
func Write(w io.Writer, s *backup.Summary, format Format) error {
	switch format {
	case FormatText, "":
		return writeText(w, s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(FromSummary(s)), "encoding JSON")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(FromSummary(s)); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(FromSummary(s)), "encoding TOML")
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

func writeText(w io.Writer, s *backup.Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Backup %s: %s\n", s.Timestamp, s.State())
	if s.Cancelled {
		b.WriteString("Cancelled before every source was copied\n")
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run\t%s\n", s.ID)
	fmt.Fprintf(tw, "Duration\t%s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(tw, "Copied\t%d\t%s\n", s.Copied, humanize.Bytes(uint64(max(s.Bytes, 0))))
	fmt.Fprintf(tw, "Skipped\t%d\n", s.Skipped)
	fmt.Fprintf(tw, "Failed\t%d\n", s.Failed)
	tw.Flush()

	if len(s.Roots) > 0 {
		b.WriteString("\nRoots:\n")
		for _, root := range s.Roots {
			fmt.Fprintf(&b, "  %s\n", root)
		}
	}

	if len(s.Failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "  %s\n", f.Detail())
		}
	}

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "writing report")
}
