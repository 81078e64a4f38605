package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/dailycontrib/internal/contrib"
)

func TestMarkdownWriter_Empty(t *testing.T) {
	report := &contrib.Report{Login: "octocat", Issues: []contrib.IssueRecord{}}

	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "## Daily Open Source Contribution") {
		t.Error("Missing heading")
	}
	if !strings.Contains(out, "No suitable issues found today.") {
		t.Error("Missing empty message")
	}
	if strings.Contains(out, "| # |") {
		t.Error("Table should not be rendered without issues")
	}
}

func TestMarkdownWriter_WithIssues(t *testing.T) {
	report := sampleReport()
	report.Skipped = []contrib.Skip{{Kind: "label", Repo: "org/x", Label: "easy", Error: "boom"}}

	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"| 1 | [org/repo#42](https://github.com/org/repo/issues/42) | Fix typo | `good first issue` |",
		`Improve \| docs`,
		"**Comment on org/repo#42:** posted",
		"Skipped (1)",
		"org/x `easy`: boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}
