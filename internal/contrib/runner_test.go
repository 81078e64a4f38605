package contrib

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunner_EndToEnd(t *testing.T) {
	api := newFakeAPI("me")
	api.addIssues("org/repo", "good first issue", Issue{
		Number:  42,
		Title:   "Fix typo",
		HTMLURL: "https://github.com/org/repo/issues/42",
		Body:    SomeText("desc"),
	})
	path := filepath.Join(t.TempDir(), "contributions.json")
	var progress bytes.Buffer

	r := NewRunner(api, RunOptions{
		Search:    Search{Repos: []string{"org/repo"}, Labels: []string{"good first issue"}},
		MaxIssues: 3,
	}, NewJournal(path, nil), zaptest.NewLogger(t).Sugar(), &progress)

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	want := []IssueRecord{{
		Repo:   "org/repo",
		Number: 42,
		Title:  "Fix typo",
		URL:    "https://github.com/org/repo/issues/42",
		Label:  "good first issue",
		Body:   "desc",
	}}
	assert.Equal(t, "me", report.Login)
	assert.Equal(t, want, report.Issues)
	require.NotNil(t, report.Selected)
	assert.Equal(t, want[0], *report.Selected)
	assert.Equal(t, CommentPosted, report.Comment)
	assert.True(t, report.Logged)

	require.Len(t, api.posted, 1)
	assert.Equal(t, InterestComment, api.posted[0].Body)

	entries := readLog(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, want, entries[0].Issues)

	out := progress.String()
	assert.Contains(t, out, "Authenticated as: me")
	assert.Contains(t, out, "Searching org/repo...")
	assert.Contains(t, out, "✓ Found 1 potential issues:")
	assert.Contains(t, out, "1. org/repo#42 - Fix typo")
	assert.Contains(t, out, "Interacting with: org/repo#42")
	assert.Contains(t, out, "✅ Daily contribution complete!")
	assert.Contains(t, out, "Log saved to "+path)
}

func TestRunner_NoIssuesWritesNoLog(t *testing.T) {
	api := newFakeAPI("me")
	path := filepath.Join(t.TempDir(), "contributions.json")

	r := NewRunner(api, RunOptions{
		Search:    Search{Repos: []string{"org/repo"}, Labels: []string{"easy"}},
		MaxIssues: 3,
	}, NewJournal(path, nil), nil, nil)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.Nil(t, report.Selected)
	assert.Equal(t, CommentNone, report.Comment)
	assert.False(t, report.Logged)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_LogsAllFoundIssuesButCommentsOnFirst(t *testing.T) {
	api := newFakeAPI("me")
	api.addIssues("org/a", "easy", issue(1, "a1"), issue(2, "a2"))
	api.addIssues("org/a", "documentation", issue(3, "a3"))
	path := filepath.Join(t.TempDir(), "contributions.json")

	r := NewRunner(api, RunOptions{
		Search:    Search{Repos: []string{"org/a"}, Labels: []string{"easy", "documentation"}},
		MaxIssues: 3,
	}, NewJournal(path, nil), nil, nil)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Issues, 3)

	require.Len(t, api.posted, 1)
	assert.Equal(t, 1, api.posted[0].Number)

	entries := readLog(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, report.Issues, entries[0].Issues)
}

func TestRunner_CommentFailureStillLogs(t *testing.T) {
	api := newFakeAPI("me")
	api.addIssues("org/a", "easy", issue(1, "a1"))
	api.postErr = errors.New("403 Forbidden")
	path := filepath.Join(t.TempDir(), "contributions.json")

	r := NewRunner(api, RunOptions{
		Search:    Search{Repos: []string{"org/a"}, Labels: []string{"easy"}},
		MaxIssues: 3,
	}, NewJournal(path, nil), zaptest.NewLogger(t).Sugar(), nil)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CommentFailed, report.Comment)
	assert.Contains(t, report.CommentError, "403 Forbidden")
	assert.True(t, report.Logged)
	assert.Len(t, readLog(t, path), 1)
}

func TestRunner_ReportsSkips(t *testing.T) {
	api := newFakeAPI("me")
	api.repoErr["org/gone"] = errors.New("404 Not Found")
	api.addIssues("org/a", "easy", issue(1, "a1"))

	r := NewRunner(api, RunOptions{
		Search:    Search{Repos: []string{"org/gone", "org/a"}, Labels: []string{"easy"}},
		MaxIssues: 3,
	}, nil, nil, nil)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, Skip{Kind: "repository", Repo: "org/gone", Error: "404 Not Found"}, report.Skipped[0])
	assert.Len(t, report.Issues, 1)
}

func TestRunner_LoginFailure(t *testing.T) {
	api := newFakeAPI("")
	api.loginErr = errors.New("401 Bad credentials")

	r := NewRunner(api, RunOptions{Search: Search{Repos: []string{"org/a"}, Labels: []string{"easy"}}}, nil, nil, nil)
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"login"}, api.calls)
}

func TestRunner_DryRun(t *testing.T) {
	api := newFakeAPI("me")
	api.addIssues("org/a", "easy", issue(1, "a1"))
	path := filepath.Join(t.TempDir(), "contributions.json")

	r := NewRunner(api, RunOptions{
		Search:    Search{Repos: []string{"org/a"}, Labels: []string{"easy"}},
		MaxIssues: 3,
		DryRun:    true,
	}, NewJournal(path, nil), nil, nil)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, CommentSkipped, report.Comment)
	assert.Empty(t, api.posted)
	assert.True(t, report.Logged)
}

func TestRunner_CancelledSearchStopsWithoutCommentOrLog(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := newFakeAPI("me")
	api.addIssues("org/a", "easy", issue(1, "a1"))
	path := filepath.Join(t.TempDir(), "contributions.json")

	r := NewRunner(api, RunOptions{
		Search:    Search{Repos: []string{"org/a"}, Labels: []string{"easy"}},
		MaxIssues: 3,
	}, NewJournal(path, nil), nil, nil)

	report, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, api.posted)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "log must not be written")
}
