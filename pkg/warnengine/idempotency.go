package warnengine

import (
	"strings"
	"sync"
	"time"
)

const (
	// dedupTTL is how long a logically identical operation is suppressed.
	dedupTTL = 10 * time.Second
	// dedupMaxEntries bounds the cache; exceeding it trims expired entries.
	dedupMaxEntries = 1000
	// duplicateLookback is how far back AddWarning searches for the warning
	// a detected duplicate should return.
	duplicateLookback = 30 * time.Second
)

// dedupCache suppresses duplicate logically-identical operations for a short
// window. The key intentionally excludes timestamps so retried submissions
// with the same content collapse into one effective operation.
type dedupCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

func newDedupCache() *dedupCache {
	return &dedupCache{
		entries: make(map[string]time.Time),
		ttl:     dedupTTL,
		maxSize: dedupMaxEntries,
		now:     time.Now,
	}
}

// Key builds a deterministic cache key from the operation and its payload.
func (c *dedupCache) Key(op, guildID, userID string, payload ...string) string {
	parts := append([]string{op, guildID, userID}, payload...)
	return strings.Join(parts, "|")
}

// IsDuplicate reports whether the key was remembered within the TTL.
func (c *dedupCache) IsDuplicate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.now().Sub(at) > c.ttl {
		delete(c.entries, key)
		return false
	}
	return true
}

// Remember records the key. When the cache grows past its bound it discards
// every entry older than the TTL before giving up on further trimming.
func (c *dedupCache) Remember(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		cutoff := c.now().Add(-c.ttl)
		for k, at := range c.entries {
			if at.Before(cutoff) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = c.now()
}

// Size returns the number of live entries, counting expired ones until trimmed.
func (c *dedupCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
