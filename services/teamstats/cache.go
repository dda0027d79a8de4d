package teamstats

import (
	"sync"
	"time"

	"forzestats-backend/lib/timezone"
)

type Category string

const (
	CategoryFaceitStats   Category = "faceit:stats"
	CategoryFaceitMatches Category = "faceit:matches"
	CategoryFaceitInfo    Category = "faceit:info"
	CategoryFaceitPlayers Category = "faceit:players"
	CategoryHltvMatches   Category = "hltv:matches"
	CategoryHltvRoster    Category = "hltv:roster"
	CategoryHltvUpcoming  Category = "hltv:upcoming"
)

type Clock func() time.Time

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// Cache is a per-category TTL cache over the upstream fetches. API
// data goes stale fast, scraped pages are expensive to refetch, hence
// the two tiers. Stale entries are kept around for fallback reads
// when the upstream is down.
type Cache struct {
	mu      sync.RWMutex
	now     Clock
	ttls    map[Category]time.Duration
	entries map[string]cacheEntry
}

func NewCache(now Clock) *Cache {
	if now == nil {
		now = timezone.Now
	}
	return &Cache{
		now: now,
		ttls: map[Category]time.Duration{
			CategoryFaceitStats:   2 * time.Minute,
			CategoryFaceitMatches: 2 * time.Minute,
			CategoryFaceitInfo:    2 * time.Minute,
			CategoryFaceitPlayers: 2 * time.Minute,
			CategoryHltvMatches:   10 * time.Minute,
			CategoryHltvRoster:    10 * time.Minute,
			CategoryHltvUpcoming:  10 * time.Minute,
		},
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) SetTTL(cat Category, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[cat] = ttl
}

func cacheKey(cat Category, key string) string {
	return string(cat) + "/" + key
}

// Get returns a value still within its category TTL.
func (c *Cache) Get(cat Category, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheKey(cat, key)]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttls[cat] {
		return nil, false
	}
	return entry.value, true
}

// GetStale returns a value regardless of age, with the time it was
// fetched so callers can label the response.
func (c *Cache) GetStale(cat Category, key string) (any, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheKey(cat, key)]
	if !ok {
		return nil, time.Time{}, false
	}
	return entry.value, entry.fetchedAt, true
}

func (c *Cache) Set(cat Category, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(cat, key)] = cacheEntry{value: value, fetchedAt: c.now()}
}

func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
