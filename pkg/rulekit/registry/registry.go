package registry

import (
	"slices"
	"sync"
)

// Registry is a thread-safe registry for values indexed by key.
// When a capacity is set, inserting past it evicts the oldest insertion.
type Registry[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]V
	order    []K
	capacity int
}

// Option configures a Registry.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the number of entries. Zero or negative means
// unbounded.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// New creates a new empty registry.
func New[K comparable, V any](opts ...Option) *Registry[K, V] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry[K, V]{
		entries:  make(map[K]V),
		capacity: cfg.capacity,
	}
}

// Register adds or updates a value in the registry.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(key, value)
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Delete removes a key from the registry.
func (r *Registry[K, V]) Delete(key K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return
	}
	delete(r.entries, key)
	if i := slices.Index(r.order, key); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// Clear removes every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
	r.order = r.order[:0]
}

// Keys returns all keys in insertion order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Capacity returns the configured bound, zero when unbounded.
func (r *Registry[K, V]) Capacity() int {
	return r.capacity
}

// Range iterates over a snapshot of the registry in insertion order.
// If fn returns false, iteration stops. It is safe to call Register or
// Delete from fn.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	keys := slices.Clone(r.order)
	values := make([]V, len(keys))
	for i, k := range keys {
		values[i] = r.entries[k]
	}
	r.mu.RUnlock()

	for i, k := range keys {
		if !fn(k, values[i]) {
			return
		}
	}
}

// GetOrCreate returns the value for a key, creating it with the factory
// if it doesn't exist. The factory runs at most once per key at a time,
// even under concurrent access. A factory error is returned and nothing
// is stored. The boolean reports whether the value came from the registry.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() (V, error)) (V, bool, error) {
	// Fast path
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, true, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if v, ok := r.entries[key]; ok {
		return v, true, nil
	}

	v, err := factory()
	if err != nil {
		var zero V
		return zero, false, err
	}
	r.store(key, v)
	return v, false, nil
}

// store inserts or replaces under the write lock, evicting the oldest
// entry when over capacity.
func (r *Registry[K, V]) store(key K, value V) {
	if _, exists := r.entries[key]; !exists {
		r.order = append(r.order, key)
	}
	r.entries[key] = value

	for r.capacity > 0 && len(r.order) > r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.entries, oldest)
	}
}
