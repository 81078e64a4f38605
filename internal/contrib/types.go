package contrib

import (
	"fmt"
	"strings"
)

// IssueRecord is one issue found during a run. It is also the element type of
// the "issues" array in the contribution log.
type IssueRecord struct {
	Repo   string `json:"repo"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Label  string `json:"label"`
	Body   string `json:"body"`
}

// Ref returns the "owner/name#number" form of the record.
func (r IssueRecord) Ref() string {
	return fmt.Sprintf("%s#%d", r.Repo, r.Number)
}

// LogEntry is one run in the contribution log.
type LogEntry struct {
	Date   string        `json:"date"`
	Issues []IssueRecord `json:"issues"`
}

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef splits "owner/name".
func ParseRepoRef(fullName string) (RepoRef, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoRef{}, fmt.Errorf("invalid repository name %q, want owner/name", fullName)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Text is a string the API may omit. The zero value is absent.
type Text struct {
	value string
	set   bool
}

// SomeText returns a present Text.
func SomeText(s string) Text {
	return Text{value: s, set: true}
}

// Get returns the value and whether it was present.
func (t Text) Get() (string, bool) {
	return t.value, t.set
}

// OrEmpty returns the value, or "" when absent.
func (t Text) OrEmpty() string {
	return t.value
}

// Issue is an issue as returned by the API, reduced to what a run needs.
type Issue struct {
	Number        int
	Title         string
	HTMLURL       string
	Body          Text
	IsPullRequest bool
}

// Comment is an existing comment on an issue.
type Comment struct {
	ID          int64
	AuthorLogin string
}

// Truncate returns the first limit characters of s. Characters are runes, not bytes.
func Truncate(s string, limit int) string {
	if limit < 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
