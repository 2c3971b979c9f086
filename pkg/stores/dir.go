package stores

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultReadTimeout = 30 * time.Second

	// defaultFetchRate bounds reads against the backing store. The local
	// filesystem does not need it, but remote-backed stores share this
	// wrapper and fetches are never retried, so the limiter is the only
	// pressure valve.
	defaultFetchRate = 50
)

// DirStore is an ObjectStore over a filesystem root. Reads are bounded by a
// per-call timeout and a token-bucket fetch limiter.
type DirStore struct {
	limiter *rate.Limiter
	timeout time.Duration
}

// DirOption configures a DirStore.
type DirOption func(*DirStore)

// WithReadTimeout bounds each Read call.
func WithReadTimeout(d time.Duration) DirOption {
	return func(s *DirStore) { s.timeout = d }
}

// WithFetchLimit caps reads per second.
func WithFetchLimit(perSecond int) DirOption {
	return func(s *DirStore) { s.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond) }
}

// NewDirStore builds a DirStore with default timeout and fetch limit.
func NewDirStore(opts ...DirOption) *DirStore {
	s := &DirStore{
		limiter: rate.NewLimiter(rate.Limit(defaultFetchRate), defaultFetchRate),
		timeout: defaultReadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsDir reports whether path exists and is a directory.
func (s *DirStore) IsDir(_ context.Context, path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// List returns sorted paths of the regular files under dir ending with ext.
func (s *DirStore) List(_ context.Context, dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Read returns the file contents, honoring the fetch limiter and timeout.
func (s *DirStore) Read(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
