// Package contrib implements one dailycontrib run: find beginner-friendly
// issues across the configured repositories, comment on the first one, and
// append the findings to the contribution log.
//
// The GitHub API is reached only through the [API] interface so the
// [Finder], [Commenter] and [Runner] can be exercised against fakes.
package contrib
