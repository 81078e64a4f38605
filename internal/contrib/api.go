package contrib

import "context"

// IssueQuery filters an issue listing. State, sort and direction are fixed by
// the API implementation: open issues, newest first.
type IssueQuery struct {
	Label string
	Limit int
}

// API is the subset of the GitHub API a run uses.
type API interface {
	// AuthenticatedLogin returns the login of the token's owner.
	AuthenticatedLogin(ctx context.Context) (string, error)
	// GetRepository checks that the repository exists and is visible.
	GetRepository(ctx context.Context, repo RepoRef) error
	// ListIssues returns open issues carrying q.Label, newest first, at most q.Limit.
	ListIssues(ctx context.Context, repo RepoRef, q IssueQuery) ([]Issue, error)
	GetIssue(ctx context.Context, repo RepoRef, number int) (Issue, error)
	// ListComments returns every comment on the issue.
	ListComments(ctx context.Context, repo RepoRef, number int) ([]Comment, error)
	CreateComment(ctx context.Context, repo RepoRef, number int, body string) error
}
