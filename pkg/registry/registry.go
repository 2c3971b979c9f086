// Package registry maps provider keys to constructors. The mapping is seeded
// with the built-in providers at factory construction and extended at runtime
// by plugin discovery; entries are only ever added, never removed, for the
// process lifetime.
package registry

import (
	"sort"
	"sync"

	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// Registry is a concurrency-safe provider-key -> constructor mapping.
// Plugin registration may run concurrently with lookups.
type Registry struct {
	mu           sync.RWMutex
	constructors map[types.ProviderKey]types.Constructor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		constructors: make(map[types.ProviderKey]types.Constructor),
	}
}

// Register inserts or overwrites the constructor for key. The key is
// case-normalized, so "OpenAI" and "openai" address the same entry.
func (r *Registry) Register(key types.ProviderKey, ctor types.Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[key.Normalize()] = ctor
}

// Resolve returns the constructor registered for key.
func (r *Registry) Resolve(key types.ProviderKey) (types.Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.constructors[key.Normalize()]
	return ctor, ok
}

// Keys returns the registered provider keys in sorted order.
func (r *Registry) Keys() []types.ProviderKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]types.ProviderKey, 0, len(r.constructors))
	for key := range r.constructors {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
