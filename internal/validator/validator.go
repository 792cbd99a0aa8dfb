package validator

import (
	"fmt"
	"strings"
)

// Severity represents the impact of an issue.
type Severity int

const (
	// SeverityError blocks a run.
	SeverityError Severity = iota
	// SeverityWarning is reported but does not block a run.
	SeverityWarning
	// SeverityInfo is informational.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Issue is a single finding.
type Issue struct {
	Severity Severity `json:"severity"`
	// Field is the configuration key, e.g. "sources[1].alias". Optional.
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Value is the offending value. Optional.
	Value any `json:"value,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		sb.WriteString(i.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result aggregates issues in the order they were found.
type Result struct {
	Issues []Issue `json:"issues"`
}

// Add appends an issue.
func (r *Result) Add(sev Severity, field, message string, value any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Field: field, Message: message, Value: value})
}

// AddError appends an error.
func (r *Result) AddError(field, message string, value any) {
	r.Add(SeverityError, field, message, value)
}

// AddWarning appends a warning.
func (r *Result) AddWarning(field, message string, value any) {
	r.Add(SeverityWarning, field, message, value)
}

// AddInfo appends an informational note.
func (r *Result) AddInfo(field, message string, value any) {
	r.Add(SeverityInfo, field, message, value)
}

// HasErrors reports whether any issue is an error.
func (r *Result) HasErrors() bool {
	return len(r.bySeverity(SeverityError)) > 0
}

// HasWarnings reports whether any issue is a warning.
func (r *Result) HasWarnings() bool {
	return len(r.bySeverity(SeverityWarning)) > 0
}

// Errors returns the error issues.
func (r *Result) Errors() []Issue {
	return r.bySeverity(SeverityError)
}

// Warnings returns the warning issues.
func (r *Result) Warnings() []Issue {
	return r.bySeverity(SeverityWarning)
}

// Infos returns the informational issues.
func (r *Result) Infos() []Issue {
	return r.bySeverity(SeverityInfo)
}

func (r *Result) bySeverity(sev Severity) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}
