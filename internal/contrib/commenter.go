package contrib

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// DocumentationComment is posted on issues found through a documentation label.
const DocumentationComment = "Hi! I'd like to help improve the documentation for this issue.\n\n" +
	"Based on the issue description, I can:\n" +
	"- Review and clarify existing documentation\n" +
	"- Add code examples if needed\n" +
	"- Improve formatting and readability\n\n" +
	"Let me know if you'd like me to submit a PR with these improvements!"

// InterestComment is posted on every other issue.
const InterestComment = "Hi! I'm interested in working on this issue.\n\n" +
	"I have experience with data engineering and would like to contribute. " +
	"Could you provide any additional context or point me to relevant code sections?\n\n" +
	"Thanks!"

// CommentStatus is the outcome of Commenter.Comment.
type CommentStatus int

const (
	// CommentNone means no issue was selected.
	CommentNone CommentStatus = iota
	// CommentFailed means a fetch, list or post call failed.
	CommentFailed
	// CommentPosted means a new comment was created.
	CommentPosted
	// CommentDuplicate means the authenticated user had already commented.
	CommentDuplicate
	// CommentSkipped means dry-run mode stopped before posting.
	CommentSkipped
)

func (s CommentStatus) String() string {
	switch s {
	case CommentPosted:
		return "posted"
	case CommentDuplicate:
		return "already-commented"
	case CommentSkipped:
		return "dry-run"
	case CommentFailed:
		return "failed"
	default:
		return "none"
	}
}

// MarshalText renders the status by name in JSON reports.
func (s CommentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CommentTemplate picks the comment body for a label.
func CommentTemplate(label string) string {
	if strings.Contains(strings.ToLower(label), "documentation") {
		return DocumentationComment
	}
	return InterestComment
}

// Commenter posts at most one comment per issue for the authenticated user.
type Commenter struct {
	api    API
	login  string
	dryRun bool
	log    *zap.SugaredLogger
	out    io.Writer
}

// NewCommenter creates a Commenter acting as login.
func NewCommenter(api API, login string, dryRun bool, log *zap.SugaredLogger, out io.Writer) *Commenter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if out == nil {
		out = io.Discard
	}
	return &Commenter{api: api, login: login, dryRun: dryRun, log: log, out: out}
}

// Comment re-fetches the issue and posts the label's template unless the
// authenticated user already commented on it. Failures are not fatal: the
// status is CommentFailed and the error says why.
func (c *Commenter) Comment(ctx context.Context, rec IssueRecord) (CommentStatus, error) {
	status, err := c.comment(ctx, rec)
	if err != nil {
		c.log.Errorw("error commenting on issue", "issue", rec.Ref(), "error", err)
		fmt.Fprintf(c.out, "Error commenting on issue: %v\n", err)
	}
	return status, err
}

func (c *Commenter) comment(ctx context.Context, rec IssueRecord) (CommentStatus, error) {
	repo, err := ParseRepoRef(rec.Repo)
	if err != nil {
		return CommentFailed, err
	}
	if err := c.api.GetRepository(ctx, repo); err != nil {
		return CommentFailed, fmt.Errorf("fetching repository: %w", err)
	}
	issue, err := c.api.GetIssue(ctx, repo, rec.Number)
	if err != nil {
		return CommentFailed, fmt.Errorf("fetching issue: %w", err)
	}

	comments, err := c.api.ListComments(ctx, repo, issue.Number)
	if err != nil {
		return CommentFailed, fmt.Errorf("listing comments: %w", err)
	}
	for _, cm := range comments {
		if cm.AuthorLogin == c.login {
			fmt.Fprintf(c.out, "Already commented on issue #%d\n", rec.Number)
			return CommentDuplicate, nil
		}
	}

	body := CommentTemplate(rec.Label)
	if c.dryRun {
		fmt.Fprintf(c.out, "Dry run: not commenting on %s\n", rec.Ref())
		return CommentSkipped, nil
	}
	if err := c.api.CreateComment(ctx, repo, issue.Number, body); err != nil {
		return CommentFailed, fmt.Errorf("posting comment: %w", err)
	}
	fmt.Fprintf(c.out, "✓ Commented on %s\n", rec.Ref())
	return CommentPosted, nil
}
