// Package output formats run reports for display or machine consumption.
//
// Three formats are supported:
//   - text    : human-readable terminal summary (default)
//   - json    : the full structured report
//   - markdown: a table suitable for a GitHub Actions job summary
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteReport] to pick the destination as well. [WriteHistory] prints the
// contribution log.
package output
