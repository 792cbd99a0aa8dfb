package validator

import (
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("Severity.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{
			name: "error with field and value",
			i:    Issue{Severity: SeverityError, Field: "workers", Message: "must not be negative", Value: -1},
			want: "error: workers: must not be negative (got -1)",
		},
		{
			name: "warning without field",
			i:    Issue{Severity: SeverityWarning, Message: "no exclusion patterns"},
			want: "warning: no exclusion patterns",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.i.Error(); got != tt.want {
				t.Errorf("Issue.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_Helpers(t *testing.T) {
	r := &Result{}
	if r.HasErrors() || r.HasWarnings() {
		t.Error("empty result should have no errors or warnings")
	}

	r.AddError("f1", "m1", "v1")
	r.AddWarning("f2", "m2", nil)
	r.AddInfo("f3", "m3", nil)

	if !r.HasErrors() || len(r.Errors()) != 1 {
		t.Errorf("Errors() = %v", r.Errors())
	}
	if !r.HasWarnings() || len(r.Warnings()) != 1 {
		t.Errorf("Warnings() = %v", r.Warnings())
	}
	if len(r.Infos()) != 1 {
		t.Errorf("Infos() = %v", r.Infos())
	}
	if len(r.Issues) != 3 {
		t.Errorf("expected 3 issues, got %d", len(r.Issues))
	}
}

func TestResult_NilSafety(t *testing.T) {
	var r *Result
	if r.HasErrors() || r.HasWarnings() {
		t.Error("nil result should have no errors or warnings")
	}
	if r.Errors() != nil || r.Warnings() != nil || r.Infos() != nil {
		t.Error("nil result should return nil slices")
	}
}
