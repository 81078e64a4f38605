package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/dailycontrib/internal/contrib"
)

const titleWidth = 60

// TextWriter outputs a human-readable summary of the run. It follows the
// progress lines the runner prints while working.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *contrib.Report) error {
	ew := &errWriter{w: w}

	ew.println("\nSummary")
	ew.println(strings.Repeat("-", 50))
	if report.Login != "" {
		ew.printf("User:    %s\n", report.Login)
	}
	ew.printf("Issues:  %d\n", len(report.Issues))
	for i, is := range report.Issues {
		ew.printf("  %d. %s - %s\n", i+1, is.Ref(), contrib.Truncate(is.Title, titleWidth))
	}
	if len(report.Issues) == 0 {
		ew.println("No suitable issues found today.")
	}

	if report.Selected != nil {
		ew.printf("Comment: %s on %s", report.Comment, report.Selected.Ref())
		if report.CommentError != "" {
			ew.printf(" (%s)", report.CommentError)
		}
		ew.println("")
	}
	if report.Logged {
		ew.printf("Logged:  %s\n", report.LogPath)
	}
	writeSkipped(ew, report.Skipped)
	return ew.err
}

func writeSkipped(ew *errWriter, skipped []contrib.Skip) {
	if len(skipped) == 0 {
		return
	}
	ew.printf("\nSkipped %d:\n", len(skipped))
	for _, s := range skipped {
		if s.Label != "" {
			ew.printf("  %s %q (%s): %s\n", s.Repo, s.Label, s.Kind, s.Error)
		} else {
			ew.printf("  %s (%s): %s\n", s.Repo, s.Kind, s.Error)
		}
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
