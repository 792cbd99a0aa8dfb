package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/snapdir/internal/errors"
)

// Format specifies the output format for reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter writes results.
type Reporter struct {
	out    io.Writer
	format Format
	// subject names what was checked, e.g. the configuration file.
	subject string
}

// NewReporter creates a Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// WithSubject sets the name printed in the text report header.
func (r *Reporter) WithSubject(subject string) *Reporter {
	r.subject = subject
	return r
}

// Report writes result.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		result = &Result{}
	}
	if r.format == FormatJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(result), "encoding JSON report")
	}
	r.reportText(result)
	return nil
}

func (r *Reporter) reportText(result *Result) {
	subject := r.subject
	if subject == "" {
		subject = "configuration"
	}

	errs := result.Errors()
	warnings := result.Warnings()
	infos := result.Infos()

	if len(errs) == 0 {
		fmt.Fprintf(r.out, "%s %s is valid", color.GreenString("✓"), subject)
	} else {
		fmt.Fprintf(r.out, "%s %s is invalid", color.RedString("✗"), subject)
	}

	var counts []string
	if len(errs) > 0 {
		counts = append(counts, color.RedString("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		counts = append(counts, color.YellowString("%d warning(s)", len(warnings)))
	}
	if len(counts) > 0 {
		fmt.Fprintf(r.out, ": %s", strings.Join(counts, ", "))
	}
	fmt.Fprintln(r.out)

	r.section("Errors", errs, color.FgRed)
	r.section("Warnings", warnings, color.FgYellow)
	r.section("Notes", infos, color.FgHiBlack)
}

func (r *Reporter) section(title string, issues []Issue, c color.Attribute) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(r.out, "\n%s:\n", title)

	field := color.New(c).SprintFunc()
	muted := color.New(color.FgHiBlack).SprintFunc()
	for _, i := range issues {
		var sb strings.Builder
		sb.WriteString("  • ")
		if i.Field != "" {
			sb.WriteString(field(i.Field))
			sb.WriteString(": ")
		}
		sb.WriteString(i.Message)
		if i.Value != nil {
			val := fmt.Sprintf("%v", i.Value)
			if len(val) > 60 {
				val = val[:57] + "..."
			}
			sb.WriteString(muted(" [" + val + "]"))
		}
		fmt.Fprintln(r.out, sb.String())
	}
}
