package gate

import (
	"context"
	"sync"
	"time"
)

// Resolver loads a value of type V for a key of type K.
// ProfileResolver[U] is the special case V = Profile.
type Resolver[K comparable, V any] interface {
	Resolve(ctx context.Context, key K) (V, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Resolve calls f.
func (f ResolverFunc[K, V]) Resolve(ctx context.Context, key K) (V, error) {
	return f(ctx, key)
}

// CachedResolver wraps a Resolver with TTL-based caching.
// Errors are never cached.
type CachedResolver[K comparable, V any] struct {
	inner Resolver[K, V]
	cache map[K]cacheEntry[V]
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewCachedResolver wraps inner; ttl is how long a value stays fresh.
func NewCachedResolver[K comparable, V any](inner Resolver[K, V], ttl time.Duration) *CachedResolver[K, V] {
	return &CachedResolver[K, V]{
		inner: inner,
		cache: make(map[K]cacheEntry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Resolve returns the cached value for key, loading it on miss or expiry.
func (r *CachedResolver[K, V]) Resolve(ctx context.Context, key K) (V, error) {
	r.mu.RLock()
	entry, ok := r.cache[key]
	r.mu.RUnlock()

	if ok && r.now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	value, err := r.inner.Resolve(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}

	r.mu.Lock()
	r.cache[key] = cacheEntry[V]{value: value, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()

	return value, nil
}

// Invalidate drops one key. Call it when the underlying record changes.
func (r *CachedResolver[K, V]) Invalidate(key K) {
	r.mu.Lock()
	delete(r.cache, key)
	r.mu.Unlock()
}

// Len returns the number of cached entries, fresh or not.
func (r *CachedResolver[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
