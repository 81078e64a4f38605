package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
)

var _ httpcache.Cache = (*Cache)(nil)

// entryExt marks files owned by the cache. Anything else in the directory is ignored.
const entryExt = ".resp"

// Cache stores dumped HTTP responses as one file per request key. A file's
// modification time is its age.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// New creates a Cache rooted at dir, or at the default directory when dir is
// empty. A non-positive ttlSeconds keeps entries until cleared.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{}, nil
	}
	if dir == "" {
		d, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlSeconds) * time.Second,
		enabled: true,
		now:     time.Now,
	}, nil
}

// Transport wraps base so GETs are answered from, or revalidated against, the
// cache. A disabled cache returns base unchanged.
func (c *Cache) Transport(base http.RoundTripper) http.RoundTripper {
	if !c.enabled {
		return base
	}
	t := httpcache.NewTransport(c)
	t.Transport = base
	return t
}

// Get returns the stored response for key. Expired entries are removed and miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}
	path := c.entryPath(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.expired(info) {
		_ = os.Remove(path)
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores response under key. A failed write only costs a later miss, so
// errors are dropped.
func (c *Cache) Set(key string, response []byte) {
	if !c.enabled {
		return
	}
	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return
	}
	_, werr := tmp.Write(response)
	cerr := tmp.Close()
	if werr != nil || cerr != nil || os.Rename(tmp.Name(), c.entryPath(key)) != nil {
		_ = os.Remove(tmp.Name())
	}
}

// Delete removes the entry for key.
func (c *Cache) Delete(key string) {
	if !c.enabled {
		return
	}
	_ = os.Remove(c.entryPath(key))
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	return c.walk(func(path string, _ fs.FileInfo) error {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing cache entry: %w", err)
		}
		return nil
	})
}

// Stats summarises the cache directory.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// GetStats counts entries, their size and how many have outlived the TTL.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	err := c.walk(func(_ string, info fs.FileInfo) error {
		stats.Entries++
		stats.TotalBytes += info.Size()
		if c.expired(info) {
			stats.Expired++
		}
		return nil
	})
	return stats, err
}

// walk calls fn for each entry file. A disabled cache or a missing directory
// has no entries.
func (c *Cache) walk(fn func(path string, info fs.FileInfo) error) error {
	if !c.enabled || c.dir == "" {
		return nil
	}
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), entryExt) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if err := fn(filepath.Join(c.dir, f.Name()), info); err != nil {
			return err
		}
	}
	return nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled reports whether caching is on.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashKey returns the hex SHA-256 of key.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

func (c *Cache) expired(info fs.FileInfo) bool {
	return c.ttl > 0 && c.now().Sub(info.ModTime()) > c.ttl
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, HashKey(key)+entryExt)
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "dailycontrib"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache directory: %w", err)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(base, "dailycontrib", "cache"), nil
	}
	return filepath.Join(base, "dailycontrib"), nil
}
