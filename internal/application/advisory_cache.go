package application

import (
	"sync"
	"time"
)

// advisoryCache stores recently computed availability partitions to avoid
// re-walking the weekly rule table for identical date/time lookups while
// the directory remains unchanged.
type advisoryCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]advisoryCacheEntry
}

type advisoryCacheEntry struct {
	options   MemberOptions
	expiresAt time.Time
}

func newAdvisoryCache(ttl time.Duration, maxEntries int, now func() time.Time) *advisoryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &advisoryCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]advisoryCacheEntry),
	}
}

func (c *advisoryCache) Get(key string) (MemberOptions, bool) {
	if c == nil {
		return MemberOptions{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return MemberOptions{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return MemberOptions{}, false
	}
	return cloneOptions(entry.options), true
}

func (c *advisoryCache) Store(key string, options MemberOptions) {
	if c == nil {
		return
	}
	cloned := cloneOptions(options)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = advisoryCacheEntry{options: cloned, expiresAt: expiry}
}

func (c *advisoryCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]advisoryCacheEntry)
	c.mu.Unlock()
}

func (c *advisoryCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *advisoryCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneOptions(options MemberOptions) MemberOptions {
	out := MemberOptions{}
	if len(options.Available) > 0 {
		out.Available = make([]MemberOption, len(options.Available))
		copy(out.Available, options.Available)
	}
	if len(options.Unavailable) > 0 {
		out.Unavailable = make([]MemberOption, len(options.Unavailable))
		copy(out.Unavailable, options.Unavailable)
	}
	return out
}

func buildAdvisoryCacheKey(date, hhmm string) string {
	return date + "|" + hhmm
}
