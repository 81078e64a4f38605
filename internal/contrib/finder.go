package contrib

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	// DefaultMaxIssues is used when Find is called with a non-positive max.
	DefaultMaxIssues = 5
	// DefaultPerLabel is how many results of each label listing are inspected.
	DefaultPerLabel = 2
	// DefaultBodyLimit is how many characters of an issue body are kept.
	DefaultBodyLimit = 200
)

// Search lists what a Finder walks, in order. A zero PerLabel or BodyLimit
// takes the default; a negative BodyLimit keeps whole bodies.
type Search struct {
	Repos     []string
	Labels    []string
	PerLabel  int
	BodyLimit int
	// Scrub, if set, rewrites each body after it is truncated, so the result
	// never holds text from past the limit.
	Scrub func(string) string
}

// FindResult is what a search produced, plus every failure it stepped over.
// Err is set when the context ended the walk early.
type FindResult struct {
	Issues  []IssueRecord
	Skipped []*SkipError
	Err     error
}

// Finder searches repositories for labelled issues.
type Finder struct {
	api    API
	search Search
	log    *zap.SugaredLogger
	out    io.Writer
}

// NewFinder creates a Finder. Progress lines go to out.
func NewFinder(api API, search Search, log *zap.SugaredLogger, out io.Writer) *Finder {
	if search.PerLabel <= 0 {
		search.PerLabel = DefaultPerLabel
	}
	if search.BodyLimit == 0 {
		search.BodyLimit = DefaultBodyLimit
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if out == nil {
		out = io.Discard
	}
	return &Finder{api: api, search: search, log: log, out: out}
}

// Find walks repos then labels in configured order and returns as soon as max
// records are collected. Pull requests are skipped. A failing repository or
// label is recorded in Skipped and the walk continues; a done context stops it
// and is returned in Err.
func (f *Finder) Find(ctx context.Context, max int) FindResult {
	if max <= 0 {
		max = DefaultMaxIssues
	}
	res := FindResult{Issues: []IssueRecord{}}

	for _, fullName := range f.search.Repos {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		repo, err := ParseRepoRef(fullName)
		if err == nil {
			err = f.api.GetRepository(ctx, repo)
		}
		if err != nil {
			res.skip(f.log, &SkipError{Kind: KindRepository, Repo: fullName, Err: err})
			continue
		}
		fmt.Fprintf(f.out, "Searching %s...\n", fullName)

		for _, label := range f.search.Labels {
			if err := ctx.Err(); err != nil {
				res.Err = err
				return res
			}
			issues, err := f.api.ListIssues(ctx, repo, IssueQuery{Label: label, Limit: f.search.PerLabel})
			if err != nil {
				res.skip(f.log, &SkipError{Kind: KindLabel, Repo: fullName, Label: label, Err: err})
				continue
			}
			if len(issues) > f.search.PerLabel {
				issues = issues[:f.search.PerLabel]
			}

			for _, is := range issues {
				if is.IsPullRequest {
					continue
				}
				body := Truncate(is.Body.OrEmpty(), f.search.BodyLimit)
				if f.search.Scrub != nil {
					body = f.search.Scrub(body)
				}
				res.Issues = append(res.Issues, IssueRecord{
					Repo:   fullName,
					Number: is.Number,
					Title:  is.Title,
					URL:    is.HTMLURL,
					Label:  label,
					Body:   body,
				})
				if len(res.Issues) >= max {
					return res
				}
			}
		}
	}
	return res
}

func (r *FindResult) skip(log *zap.SugaredLogger, e *SkipError) {
	log.Warnw("skipping", "kind", e.Kind.String(), "repo", e.Repo, "label", e.Label, "error", e.Err)
	r.Skipped = append(r.Skipped, e)
}
