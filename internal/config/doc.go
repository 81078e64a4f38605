// Package config loads and merges dailycontrib configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (DAILYCONTRIB_REPOS, DAILYCONTRIB_MAX_ISSUES, etc.)
//  3. Config file ($XDG_CONFIG_HOME/dailycontrib/config.yaml, or DAILYCONTRIB_CONFIG)
//  4. Built-in defaults
//
// The access token is not part of [Config]; [LoadToken] reads it from GH_PAT or
// GITHUB_TOKEN and reports [ErrMissingToken] when neither is set.
package config
