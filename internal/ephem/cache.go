package ephem

import (
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
)

// cacheKey identifies one event computation.
type cacheKey struct {
	event    astro.Event
	date     string
	observer astro.Observer
}

type cachedTime struct {
	t  time.Time
	ok bool
}

// CachedProvider memoizes another provider's results. Entries never
// expire; the cache is cleared when it grows past MaxEntries.
type CachedProvider struct {
	Provider
	MaxEntries int

	mu    sync.RWMutex
	cache map[cacheKey]cachedTime
}

// DefaultCacheEntries bounds a CachedProvider with no MaxEntries.
const DefaultCacheEntries = 4096

// NewCachedProvider wraps p with a result cache.
func NewCachedProvider(p Provider) *CachedProvider {
	return &CachedProvider{
		Provider: p,
		cache:    make(map[cacheKey]cachedTime),
	}
}

// EventAt implements Provider.
func (c *CachedProvider) EventAt(e astro.Event, day time.Time, obs astro.Observer) (time.Time, bool) {
	key := cacheKey{event: e, date: day.UTC().Format("2006-01-02"), observer: obs}

	c.mu.RLock()
	hit, found := c.cache[key]
	c.mu.RUnlock()
	if found {
		return hit.t, hit.ok
	}

	t, ok := c.Provider.EventAt(e, day, obs)

	c.mu.Lock()
	limit := c.MaxEntries
	if limit <= 0 {
		limit = DefaultCacheEntries
	}
	if len(c.cache) >= limit {
		c.cache = make(map[cacheKey]cachedTime)
	}
	c.cache[key] = cachedTime{t: t, ok: ok}
	c.mu.Unlock()

	return t, ok
}

// Len returns the number of cached results.
func (c *CachedProvider) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
