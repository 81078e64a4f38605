package output

import (
	"io"

	"github.com/dshills/dailycontrib/internal/contrib"
)

// WriteHistory prints contribution log entries, newest last.
func WriteHistory(entries []contrib.LogEntry, format, outPath string) error {
	return withDestination(outPath, func(w io.Writer) error {
		if format == "json" {
			if entries == nil {
				entries = []contrib.LogEntry{}
			}
			return writeJSON(w, entries)
		}
		return writeHistoryText(w, entries)
	})
}

func writeHistoryText(w io.Writer, entries []contrib.LogEntry) error {
	ew := &errWriter{w: w}
	if len(entries) == 0 {
		ew.println("No runs logged yet.")
		return ew.err
	}
	for _, e := range entries {
		ew.printf("%s  (%d issues)\n", e.Date, len(e.Issues))
		for _, is := range e.Issues {
			ew.printf("  %s [%s] %s\n", is.Ref(), is.Label, contrib.Truncate(is.Title, titleWidth))
		}
	}
	return ew.err
}
