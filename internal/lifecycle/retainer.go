package lifecycle

import (
	"sort"
	"sync"
)

// Retainer keeps containers alive between host instances, keyed by a stable
// host key (typically the container identity, plus an index for repeated
// components). Values are *presenter.Container of any type parameters.
// Safe for concurrent use.
type Retainer struct {
	mu         sync.RWMutex
	containers map[string]any
}

// NewRetainer creates an empty Retainer.
func NewRetainer() *Retainer {
	return &Retainer{containers: make(map[string]any)}
}

// Get returns the container stored under key.
func (r *Retainer) Get(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.containers[key]
	return c, ok
}

// Put stores c under key, replacing any previous entry.
func (r *Retainer) Put(key string, c any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.containers[key] = c
}

// Remove deletes the entry for key.
// Returns true if an entry was found and removed.
func (r *Retainer) Remove(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.containers[key]; !ok {
		return false
	}
	delete(r.containers, key)
	return true
}

// Keys returns the retained keys in sorted order.
func (r *Retainer) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.containers))
	for k := range r.containers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of retained containers.
func (r *Retainer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.containers)
}
