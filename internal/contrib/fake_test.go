package contrib

import (
	"context"
	"fmt"
)

type postedComment struct {
	Repo   string
	Number int
	Body   string
}

// fakeAPI is an in-memory API. Issues are keyed by repo then label.
type fakeAPI struct {
	login    string
	loginErr error

	repoErr  map[string]error
	issues   map[string]map[string][]Issue
	listErr  map[string]error
	getErr   error
	comments map[string][]Comment
	commErr  error
	postErr  error

	posted  []postedComment
	queries []IssueQuery
	calls   []string
}

func newFakeAPI(login string) *fakeAPI {
	return &fakeAPI{
		login:    login,
		repoErr:  map[string]error{},
		issues:   map[string]map[string][]Issue{},
		listErr:  map[string]error{},
		comments: map[string][]Comment{},
	}
}

func (f *fakeAPI) addIssues(repo, label string, issues ...Issue) {
	if f.issues[repo] == nil {
		f.issues[repo] = map[string][]Issue{}
	}
	f.issues[repo][label] = append(f.issues[repo][label], issues...)
}

func issueKey(repo string, number int) string {
	return fmt.Sprintf("%s#%d", repo, number)
}

func (f *fakeAPI) AuthenticatedLogin(ctx context.Context) (string, error) {
	f.calls = append(f.calls, "login")
	return f.login, f.loginErr
}

func (f *fakeAPI) GetRepository(ctx context.Context, repo RepoRef) error {
	f.calls = append(f.calls, "repo "+repo.String())
	return f.repoErr[repo.String()]
}

func (f *fakeAPI) ListIssues(ctx context.Context, repo RepoRef, q IssueQuery) ([]Issue, error) {
	f.calls = append(f.calls, "list "+repo.String()+" "+q.Label)
	f.queries = append(f.queries, q)
	if err := f.listErr[repo.String()+"|"+q.Label]; err != nil {
		return nil, err
	}
	return f.issues[repo.String()][q.Label], nil
}

func (f *fakeAPI) GetIssue(ctx context.Context, repo RepoRef, number int) (Issue, error) {
	f.calls = append(f.calls, "get "+issueKey(repo.String(), number))
	if f.getErr != nil {
		return Issue{}, f.getErr
	}
	for _, byLabel := range f.issues[repo.String()] {
		for _, is := range byLabel {
			if is.Number == number {
				return is, nil
			}
		}
	}
	return Issue{Number: number}, nil
}

func (f *fakeAPI) ListComments(ctx context.Context, repo RepoRef, number int) ([]Comment, error) {
	f.calls = append(f.calls, "comments "+issueKey(repo.String(), number))
	if f.commErr != nil {
		return nil, f.commErr
	}
	return f.comments[issueKey(repo.String(), number)], nil
}

func (f *fakeAPI) CreateComment(ctx context.Context, repo RepoRef, number int, body string) error {
	f.calls = append(f.calls, "post "+issueKey(repo.String(), number))
	if f.postErr != nil {
		return f.postErr
	}
	f.posted = append(f.posted, postedComment{Repo: repo.String(), Number: number, Body: body})
	key := issueKey(repo.String(), number)
	f.comments[key] = append(f.comments[key], Comment{ID: int64(len(f.posted)), AuthorLogin: f.login})
	return nil
}
