package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/dailycontrib/internal/contrib"
)

// MarkdownWriter outputs a summary suitable for $GITHUB_STEP_SUMMARY.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *contrib.Report) error {
	ew := &errWriter{w: w}

	ew.printf("## Daily Open Source Contribution\n\n")
	ew.printf("_%s as @%s_\n\n", report.StartedAt.Format("2006-01-02 15:04"), report.Login)

	if len(report.Issues) == 0 {
		ew.println("No suitable issues found today.")
		writeMarkdownSkipped(ew, report.Skipped)
		return ew.err
	}

	ew.printf("| # | Issue | Title | Label |\n")
	ew.printf("|---|-------|-------|-------|\n")
	for i, is := range report.Issues {
		ew.printf("| %d | [%s](%s) | %s | `%s` |\n", i+1, is.Ref(), is.URL, mdEscape(is.Title), is.Label)
	}
	ew.println("")

	if report.Selected != nil {
		ew.printf("**Comment on %s:** %s", report.Selected.Ref(), report.Comment)
		if report.CommentError != "" {
			ew.printf(" (`%s`)", report.CommentError)
		}
		ew.println("\n")
	}
	writeMarkdownSkipped(ew, report.Skipped)
	return ew.err
}

func writeMarkdownSkipped(ew *errWriter, skipped []contrib.Skip) {
	if len(skipped) == 0 {
		return
	}
	ew.printf("<details>\n<summary>Skipped (%d)</summary>\n\n", len(skipped))
	for _, s := range skipped {
		target := s.Repo
		if s.Label != "" {
			target = fmt.Sprintf("%s `%s`", s.Repo, s.Label)
		}
		ew.printf("- %s: %s\n", target, s.Error)
	}
	ew.println("\n</details>")
}

func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
