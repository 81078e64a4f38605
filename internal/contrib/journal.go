package contrib

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// DateLayout is the local-time ISO-8601 layout of LogEntry.Date.
const DateLayout = "2006-01-02T15:04:05.000000"

const lockRetryDelay = 100 * time.Millisecond

// Journal is the contribution log: a JSON array of LogEntry in a single file.
// Every Append reads the whole array and rewrites it. A sibling ".lock" file
// serialises overlapping runs.
type Journal struct {
	path string
	lock *flock.Flock
	now  func() time.Time
	log  *zap.SugaredLogger
}

// NewJournal creates a Journal for path. The file need not exist.
func NewJournal(path string, log *zap.SugaredLogger) *Journal {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Journal{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
		log:  log,
	}
}

// Path returns the log file path.
func (j *Journal) Path() string {
	return j.path
}

// Append adds an entry dated now holding issues and rewrites the file.
func (j *Journal) Append(ctx context.Context, issues []IssueRecord) (LogEntry, error) {
	entry := LogEntry{
		Date:   j.now().Format(DateLayout),
		Issues: append([]IssueRecord{}, issues...),
	}

	if err := j.acquire(ctx, false); err != nil {
		return LogEntry{}, err
	}
	defer j.release()

	entries, err := j.read()
	if err != nil {
		var perr *parseError
		if !errors.As(err, &perr) {
			return LogEntry{}, err
		}
		backup, berr := j.quarantine()
		if berr != nil {
			return LogEntry{}, fmt.Errorf("%v; moving it aside: %w", err, berr)
		}
		j.log.Warnw("contribution log was not valid JSON, starting a new one", "path", j.path, "backup", backup, "error", perr.err)
		entries = nil
	}

	entries = append(entries, entry)
	if err := j.write(entries); err != nil {
		return LogEntry{}, err
	}
	return entry, nil
}

// Entries returns every logged run, oldest first. A missing file yields none.
func (j *Journal) Entries(ctx context.Context) ([]LogEntry, error) {
	if err := j.acquire(ctx, true); err != nil {
		return nil, err
	}
	defer j.release()
	return j.read()
}

func (j *Journal) acquire(ctx context.Context, shared bool) error {
	if dir := filepath.Dir(j.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}
	var locked bool
	var err error
	if shared {
		locked, err = j.lock.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = j.lock.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("locking contribution log: %w", err)
	}
	if !locked {
		return fmt.Errorf("locking contribution log: %s is held by another run", j.lock.Path())
	}
	return nil
}

func (j *Journal) release() {
	if err := j.lock.Unlock(); err != nil {
		j.log.Warnw("unlocking contribution log", "error", err)
	}
}

type parseError struct {
	path string
	err  error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parsing contribution log %s: %v", e.path, e.err)
}

func (e *parseError) Unwrap() error { return e.err }

func (j *Journal) read() ([]LogEntry, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading contribution log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &parseError{path: j.path, err: err}
	}
	return entries, nil
}

// quarantine moves an unreadable log aside and returns the new name.
func (j *Journal) quarantine() (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%d", j.path, j.now().Unix())
	if err := os.Rename(j.path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

func (j *Journal) write(entries []LogEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling contribution log: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(j.path), filepath.Base(j.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp log file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing contribution log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing contribution log: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing contribution log: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing contribution log: %w", err)
	}
	return nil
}
