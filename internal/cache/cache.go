// Package cache implements a filesystem HTTP response cache. Each URL maps to
// one JSON file named after the SHA-256 of the URL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTTL is used when New receives a non-positive ttl.
const DefaultTTL = 3600 * time.Second

const fileExt = ".json"

// Entry is a cached HTTP response.
type Entry struct {
	Status  int
	Body    string
	Headers map[string]string
}

// Stats describes the on-disk cache.
type Stats struct {
	Dir       string `json:"dir"`
	Files     int    `json:"files"`
	SizeBytes int64  `json:"size_bytes"`
}

type record struct {
	URL     string            `json:"url"`
	Status  int               `json:"status"`
	Text    string            `json:"text"`
	Headers map[string]string `json:"headers"`
	// Timestamp is Unix seconds with microsecond precision.
	Timestamp float64 `json:"timestamp"`
}

// FileCache stores responses under dir with a fixed TTL.
type FileCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// Option configures a FileCache.
type Option func(*FileCache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *FileCache) { c.now = now }
}

// New returns a FileCache rooted at dir. The directory is created lazily on Put.
func New(dir string, ttl time.Duration, opts ...Option) *FileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &FileCache{dir: dir, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// DefaultDir returns ~/.geo-cache, or a directory under the system temp dir
// when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "geo-cache")
	}
	return filepath.Join(home, ".geo-cache")
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// TTL returns the entry lifetime.
func (c *FileCache) TTL() time.Duration { return c.ttl }

// Key returns the hex SHA-256 of url.
func (c *FileCache) Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Path returns the file that holds the entry for url.
func (c *FileCache) Path(url string) string {
	return filepath.Join(c.dir, c.Key(url)+fileExt)
}

// Get returns the entry for url. Expired entries are removed; unreadable
// entries are left on disk. Both count as a miss.
func (c *FileCache) Get(url string) (*Entry, bool) {
	path := c.Path(url)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}

	written := time.UnixMicro(int64(math.Round(rec.Timestamp * 1e6)))
	if c.now().Truncate(time.Microsecond).Sub(written) >= c.ttl {
		_ = os.Remove(path)
		return nil, false
	}

	headers := rec.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	return &Entry{Status: rec.Status, Body: rec.Text, Headers: headers}, true
}

// Put writes the response for url, creating the cache directory if needed.
func (c *FileCache) Put(url string, status int, body string, headers map[string]string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	rec := record{
		URL:       url,
		Status:    status,
		Text:      body,
		Headers:   headers,
		Timestamp: float64(c.now().UnixMicro()) / 1e6,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.Path(url), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Clear removes the cache directory and returns how many entries it held.
func (c *FileCache) Clear() (int, error) {
	files, err := c.entries()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	if err := os.RemoveAll(c.dir); err != nil {
		return 0, fmt.Errorf("remove cache dir: %w", err)
	}
	return len(files), nil
}

// Stats reports the number of entries and their total size.
func (c *FileCache) Stats() (Stats, error) {
	st := Stats{Dir: c.dir}
	files, err := c.entries()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			continue
		}
		st.Files++
		st.SizeBytes += info.Size()
	}
	return st, nil
}

func (c *FileCache) entries() ([]fs.DirEntry, error) {
	all, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if !e.IsDir() && strings.HasSuffix(e.Name(), fileExt) {
			out = append(out, e)
		}
	}
	return out, nil
}
