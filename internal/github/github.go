package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v45/github"
	"golang.org/x/oauth2"

	"github.com/dshills/dailycontrib/internal/contrib"
)

const (
	defaultTimeout = 60 * time.Second
	commentsPage   = 100
)

var _ contrib.API = (*Client)(nil)

// Options configures a Client.
type Options struct {
	Token string
	// APIURL overrides https://api.github.com/, e.g. for GitHub Enterprise.
	APIURL string
	// Transport is the base round tripper under the token transport.
	// Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Timeout   time.Duration
}

// Client provides access to the GitHub REST API.
type Client struct {
	gh *gh.Client
}

// NewClient creates a GitHub client authenticating with opts.Token.
func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("GitHub token is empty")
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	httpCli := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   &revalidateTransport{next: base},
		},
	}
	client := gh.NewClient(httpCli)

	if opts.APIURL != "" {
		u, err := url.Parse(strings.TrimRight(opts.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing API URL %q: %w", opts.APIURL, err)
		}
		client.BaseURL = u
	}
	return &Client{gh: client}, nil
}

// AuthenticatedLogin returns the login of the token's owner.
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("fetching authenticated user: %w", err)
	}
	if user.GetLogin() == "" {
		return "", fmt.Errorf("authenticated user has no login")
	}
	return user.GetLogin(), nil
}

// GetRepository fetches the repository by full name.
func (c *Client) GetRepository(ctx context.Context, repo contrib.RepoRef) error {
	if _, _, err := c.gh.Repositories.Get(ctx, repo.Owner, repo.Name); err != nil {
		return fmt.Errorf("fetching repository %s: %w", repo, err)
	}
	return nil
}

// ListIssues lists open issues with q.Label, newest first. Only the first
// page is requested, sized to q.Limit.
func (c *Client) ListIssues(ctx context.Context, repo contrib.RepoRef, q contrib.IssueQuery) ([]contrib.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:     "open",
		Labels:    []string{q.Label},
		Sort:      "created",
		Direction: "desc",
	}
	if q.Limit > 0 {
		opts.PerPage = q.Limit
	}

	issues, _, err := c.gh.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("listing %q issues in %s: %w", q.Label, repo, err)
	}

	out := make([]contrib.Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, convertIssue(is))
	}
	return out, nil
}

// GetIssue fetches a single issue by number.
func (c *Client) GetIssue(ctx context.Context, repo contrib.RepoRef, number int) (contrib.Issue, error) {
	is, _, err := c.gh.Issues.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return contrib.Issue{}, fmt.Errorf("fetching issue %s#%d: %w", repo, number, err)
	}
	return convertIssue(is), nil
}

// ListComments returns every comment on an issue, following pagination. The
// listing backs the duplicate check, so cached pages are always revalidated.
func (c *Client) ListComments(ctx context.Context, repo contrib.RepoRef, number int) ([]contrib.Comment, error) {
	ctx = context.WithValue(ctx, revalidateKey{}, true)
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: commentsPage},
	}

	var out []contrib.Comment
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, repo.Owner, repo.Name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments on %s#%d: %w", repo, number, err)
		}
		for _, cm := range comments {
			out = append(out, contrib.Comment{
				ID:          cm.GetID(),
				AuthorLogin: cm.GetUser().GetLogin(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// CreateComment posts body as a new comment on the issue.
func (c *Client) CreateComment(ctx context.Context, repo contrib.RepoRef, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, repo.Owner, repo.Name, number, &gh.IssueComment{
		Body: gh.String(body),
	})
	if err != nil {
		return fmt.Errorf("creating comment on %s#%d: %w", repo, number, err)
	}
	return nil
}

type revalidateKey struct{}

// revalidateTransport marks requests made with revalidateKey in their context
// "Cache-Control: no-cache", so a caching transport below it must go to GitHub
// instead of answering from a response that is still fresh.
type revalidateTransport struct {
	next http.RoundTripper
}

func (t *revalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if v, _ := req.Context().Value(revalidateKey{}).(bool); v {
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "no-cache")
	}
	return t.next.RoundTrip(req)
}

func convertIssue(is *gh.Issue) contrib.Issue {
	out := contrib.Issue{
		Number:        is.GetNumber(),
		Title:         is.GetTitle(),
		HTMLURL:       is.GetHTMLURL(),
		IsPullRequest: is.IsPullRequest(),
	}
	if is.Body != nil {
		out.Body = contrib.SomeText(*is.Body)
	}
	return out
}
