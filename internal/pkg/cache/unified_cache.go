package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CacheMetrics tracks cache performance
type CacheMetrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// UnifiedCache is a generic TTL cache keyed by string.
type UnifiedCache[T any] struct {
	mu      sync.Mutex
	items   map[string]cacheEntry[T]
	ttl     time.Duration
	name    string // For logging/debugging
	metrics CacheMetrics
	logger  *zap.Logger
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type cacheEntry[T any] struct {
	value      T
	expiration time.Time
}

// NewUnifiedCache creates a cache whose entries live for ttl. Close stops
// the background cleanup.
func NewUnifiedCache[T any](ttl time.Duration, name string, logger *zap.Logger) *UnifiedCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &UnifiedCache[T]{
		items:  make(map[string]cacheEntry[T]),
		ttl:    ttl,
		name:   name,
		logger: logger,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Set stores an item in the cache with the given key
func (c *UnifiedCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheEntry[T]{
		value:      value,
		expiration: c.now().Add(c.ttl),
	}
	c.metrics.Sets++

	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl),
	)
}

// Get retrieves an item from the cache
func (c *UnifiedCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	item, found := c.items[key]
	if !found {
		c.metrics.Misses++
		c.logger.Debug("Cache miss", zap.String("cache", c.name), zap.String("key", key))
		return zero, false
	}

	if c.now().After(item.expiration) {
		c.metrics.Misses++
		delete(c.items, key)
		c.logger.Debug("Cache expired", zap.String("cache", c.name), zap.String("key", key))
		return zero, false
	}

	c.metrics.Hits++
	c.logger.Debug("Cache hit", zap.String("cache", c.name), zap.String("key", key))
	return item.value, true
}

// Delete removes an item from the cache
func (c *UnifiedCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	c.logger.Debug("Cache delete", zap.String("cache", c.name), zap.String("key", key))
}

// Clear removes all items from the cache
func (c *UnifiedCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]cacheEntry[T])
	c.logger.Debug("Cache cleared", zap.String("cache", c.name))
}

// GetMetrics returns current cache metrics
func (c *UnifiedCache[T]) GetMetrics() CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// Size returns the number of items in the cache
func (c *UnifiedCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the cleanup goroutine.
func (c *UnifiedCache[T]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// cleanup runs periodically to remove expired items
func (c *UnifiedCache[T]) cleanup() {
	ticker := time.NewTicker(c.ttl / 2) // Run cleanup twice per TTL period
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *UnifiedCache[T]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
			expired++
		}
	}
	if expired > 0 {
		c.logger.Debug("Cache cleanup",
			zap.String("cache", c.name),
			zap.Int("expired_items", expired),
			zap.Int("remaining_items", len(c.items)),
		)
	}
}
