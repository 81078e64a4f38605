package contrib

import "fmt"

// Kind says which loop a swallowed failure short-circuited.
type Kind int

const (
	// KindRepository means the whole repository was skipped.
	KindRepository Kind = iota + 1
	// KindLabel means one label of a repository was skipped.
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindRepository:
		return "repository"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// SkipError records a failure the Finder logged and stepped over.
type SkipError struct {
	Kind  Kind
	Repo  string
	Label string
	Err   error
}

func (e *SkipError) Error() string {
	if e.Kind == KindLabel {
		return fmt.Sprintf("error searching label %q in %s: %v", e.Label, e.Repo, e.Err)
	}
	return fmt.Sprintf("error accessing %s: %v", e.Repo, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }
