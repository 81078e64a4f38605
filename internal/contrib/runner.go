package contrib

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

const titleWidth = 60

// Skip is the report form of a SkipError.
type Skip struct {
	Kind  string `json:"kind"`
	Repo  string `json:"repo"`
	Label string `json:"label,omitempty"`
	Error string `json:"error"`
}

// Report describes one run.
type Report struct {
	StartedAt    time.Time     `json:"startedAt"`
	Login        string        `json:"login"`
	Issues       []IssueRecord `json:"issues"`
	Selected     *IssueRecord  `json:"selected,omitempty"`
	Comment      CommentStatus `json:"comment"`
	CommentError string        `json:"commentError,omitempty"`
	Skipped      []Skip        `json:"skipped,omitempty"`
	LogPath      string        `json:"logPath,omitempty"`
	Logged       bool          `json:"logged"`
	DryRun       bool          `json:"dryRun"`
}

// RunOptions configures a Runner.
type RunOptions struct {
	Search    Search
	MaxIssues int
	DryRun    bool
}

// Runner wires one run together: identity, search, comment, log.
type Runner struct {
	api      API
	opts     RunOptions
	journal  *Journal
	log      *zap.SugaredLogger
	progress io.Writer
	now      func() time.Time
}

// NewRunner creates a Runner. Progress lines go to progress.
func NewRunner(api API, opts RunOptions, journal *Journal, log *zap.SugaredLogger, progress io.Writer) *Runner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Runner{
		api:      api,
		opts:     opts,
		journal:  journal,
		log:      log,
		progress: progress,
		now:      time.Now,
	}
}

// Run executes the workflow. Finding nothing, skipped repositories and a
// failed comment are reported, not returned as errors; the error is non-nil
// only when the identity lookup or the contribution log fails, or when ctx
// ends the search.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		StartedAt: r.now(),
		Issues:    []IssueRecord{},
		DryRun:    r.opts.DryRun,
	}

	fmt.Fprintln(r.progress, "🚀 Daily Open Source Contributor")
	fmt.Fprintln(r.progress, strings.Repeat("=", 50))
	fmt.Fprintf(r.progress, "Date: %s\n", report.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(r.progress, strings.Repeat("=", 50))

	login, err := r.api.AuthenticatedLogin(ctx)
	if err != nil {
		return report, fmt.Errorf("fetching authenticated user: %w", err)
	}
	report.Login = login
	fmt.Fprintf(r.progress, "\nAuthenticated as: %s\n", login)

	fmt.Fprintln(r.progress, "\nSearching for good first issues...")
	found := NewFinder(r.api, r.opts.Search, r.log, r.progress).Find(ctx, r.opts.MaxIssues)
	report.Issues = found.Issues
	for _, s := range found.Skipped {
		report.Skipped = append(report.Skipped, Skip{
			Kind:  s.Kind.String(),
			Repo:  s.Repo,
			Label: s.Label,
			Error: s.Err.Error(),
		})
	}

	if found.Err != nil {
		return report, fmt.Errorf("searching for issues: %w", found.Err)
	}

	if len(found.Issues) == 0 {
		fmt.Fprintln(r.progress, "\n❌ No suitable issues found today.")
		r.log.Infow("no suitable issues found", "skipped", len(found.Skipped))
		return report, nil
	}

	fmt.Fprintf(r.progress, "\n✓ Found %d potential issues:\n", len(found.Issues))
	for i, is := range found.Issues {
		fmt.Fprintf(r.progress, "%d. %s - %s\n", i+1, is.Ref(), Truncate(is.Title, titleWidth))
	}

	selected := found.Issues[0]
	report.Selected = &selected
	fmt.Fprintf(r.progress, "\nInteracting with: %s\n", selected.Ref())
	status, err := NewCommenter(r.api, login, r.opts.DryRun, r.log, r.progress).Comment(ctx, selected)
	report.Comment = status
	if err != nil {
		report.CommentError = err.Error()
	}

	if r.journal != nil {
		report.LogPath = r.journal.Path()
		if _, err := r.journal.Append(ctx, found.Issues); err != nil {
			return report, err
		}
		report.Logged = true
		fmt.Fprintf(r.progress, "\nLog saved to %s\n", r.journal.Path())
	}
	fmt.Fprintln(r.progress, "\n✅ Daily contribution complete!")
	return report, nil
}
