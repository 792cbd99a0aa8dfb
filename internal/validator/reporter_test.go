package validator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestReporter_Text(t *testing.T) {
	result := &Result{}
	result.AddError("sources[0].alias", "duplicate alias", "f1")
	result.AddWarning("sources[1].path", "does not exist", "/data/missing")
	result.AddInfo("locations[0]", "will be created", nil)

	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatText).WithSubject("snapdir.yaml").Report(result); err != nil {
		t.Fatalf("Report() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"snapdir.yaml is invalid: 1 error(s), 1 warning(s)\n",
		"Errors:\n  • sources[0].alias: duplicate alias [f1]\n",
		"Warnings:\n  • sources[1].path: does not exist [/data/missing]\n",
		"Notes:\n  • locations[0]: will be created\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReporter_TextValid(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatText).Report(nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "✓ configuration is valid\n" {
		t.Errorf("output = %q", got)
	}
}

func TestReporter_JSON(t *testing.T) {
	result := &Result{}
	result.AddWarning("sources[0].path", "does not exist", "/x")

	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatJSON).Report(result); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Issues []struct {
			Severity string `json:"severity"`
			Field    string `json:"field"`
			Value    string `json:"value"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got.Issues) != 1 || got.Issues[0].Severity != "warning" || got.Issues[0].Value != "/x" {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
}
