// Dailycontrib is a scheduled CLI that offers help on one beginner-friendly
// open-source issue per run.
//
// It searches a list of repositories for open issues carrying newcomer labels,
// comments on the first one found unless the authenticated user already has,
// and appends the issues it found to a JSON contribution log.
//
// Usage:
//
//	dailycontrib                      # one run with the configured repos
//	dailycontrib --dry-run            # search and log without commenting
//	dailycontrib --format markdown >> "$GITHUB_STEP_SUMMARY"
//	dailycontrib history --last 7     # recent runs from the log
//	dailycontrib config init          # write the default config file
//
// The token is read from GH_PAT, then GITHUB_TOKEN.
package main
