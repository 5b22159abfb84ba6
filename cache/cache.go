// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Thread-safe generic cache using sync.Map with automatic cleanup

package cache

import (
	"log/slog"
	"sync"
	"time"
)

const cleanupInterval = 1 * time.Minute

type entry[V any] struct {
	data      V
	expiresAt time.Time
}

// Cache maps string keys to values of type V, expiring entries after ttl.
type Cache[V any] struct {
	store    sync.Map
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func New[V any](ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	e := val.(entry[V])
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	e := entry[V]{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
	c.store.Store(key, e)
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

func (c *Cache[V]) Clear(key string) {
	c.store.Delete(key)
}

// Flush removes every entry
func (c *Cache[V]) Flush() {
	c.store.Range(func(key, _ any) bool {
		c.store.Delete(key)
		return true
	})
}

// Len counts the entries that have not yet expired
func (c *Cache[V]) Len() int {
	now := time.Now()
	n := 0
	c.store.Range(func(_, val any) bool {
		if !now.After(val.(entry[V]).expiresAt) {
			n++
		}
		return true
	})
	return n
}

// Stop ends the background cleanup goroutine. Safe to call more than once.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) startCleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *Cache[V]) evictExpired(now time.Time) {
	c.store.Range(func(key, val any) bool {
		if now.After(val.(entry[V]).expiresAt) {
			c.store.Delete(key)
		}
		return true
	})
}
