// Package cli wires together the Cobra command tree for the dailycontrib binary.
//
// The root command runs one contribution pass: it loads configuration and the
// GitHub token, builds the cached API client, runs the contrib workflow and
// writes the report. Subcommands cover the contribution history, the config
// file and the HTTP cache. Exit codes are deterministic so schedulers can
// tell a missing credential from a bad flag or a failed run.
package cli
