// Package cache is the request facade: a bounded, concurrency-safe LRU memo
// of constructed provider instances keyed by (model name, source path). It is
// the only memoizing component; the factory underneath returns a fresh
// object per call. Invalidation is coarse: the whole cache clears at once,
// either on a force-reload request or from the definition watcher.
package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/cecil-the-coder/llm-config-factory/pkg/factory"
	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// DefaultCapacity bounds the cache when no explicit capacity is given.
const DefaultCapacity = 128

// Key addresses one cached instance.
type Key struct {
	Model      string
	SourcePath string
}

type entry struct {
	key      Key
	provider types.Provider
}

// Cache memoizes provider instances with least-recently-used eviction.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List            // front is most recently used
	items    map[Key]*list.Element // value is *entry
	opts     factory.Options
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity bounds the cache to n entries.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// New builds a cache over the given factory options. The options act as a
// template: each miss constructs (or reuses) the process-wide factory with
// the requested source path filled in.
func New(opts factory.Options, cacheOpts ...Option) *Cache {
	c := &Cache{
		capacity: DefaultCapacity,
		order:    list.New(),
		items:    make(map[Key]*list.Element),
		opts:     opts,
	}
	for _, opt := range cacheOpts {
		opt(c)
	}
	return c
}

// Get returns the provider instance for the named model. A hit returns the
// stored object unchanged; a miss constructs the factory if needed, resolves
// the instance, stores it and returns it. forceReload clears the entire
// cache first; per-key eviction is not supported.
func (c *Cache) Get(ctx context.Context, name, sourcePath string, forceReload bool) (types.Provider, error) {
	if forceReload {
		c.Clear()
	}

	key := Key{Model: name, SourcePath: sourcePath}
	if p, ok := c.lookup(key); ok {
		return p, nil
	}

	opts := c.opts
	opts.LocalPath = sourcePath
	f, err := factory.Init(ctx, opts)
	if err != nil {
		return nil, err
	}
	p, err := f.GetModelInstance(name)
	if err != nil {
		return nil, err
	}
	return c.store(key, p), nil
}

// Clear evicts every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[Key]*list.Element)
}

// Len returns the number of cached instances.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) lookup(key Key) (types.Provider, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).provider, true
}

// store inserts p under key and returns the canonical cached instance. When
// two Gets race on the same key, the first stored instance wins so identity
// stays stable for every caller.
func (c *Cache) store(key Key, p types.Provider) types.Provider {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*entry).provider
	}

	c.items[key] = c.order.PushFront(&entry{key: key, provider: p})
	for len(c.items) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}
	return p
}
