package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"hearing/internal/domain"
)

// ReportCache is an in-memory LRU cache of analyses with a TTL. Invalidate
// drops every entry, including ones being written concurrently.
type ReportCache struct {
	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	order      []string
	maxSize    int
	ttl        time.Duration
	generation uint64
}

type cacheEntry struct {
	analysis   *domain.Analysis
	timestamp  time.Time
	generation uint64
}

func NewReportCache(maxSize int, ttl time.Duration) *ReportCache {
	if maxSize <= 0 {
		maxSize = 64
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ReportCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Key derives a cache key from document content and the parameters that
// affect the analysis.
func Key(content []byte, params ...string) string {
	h := sha256.New()
	h.Write(content)
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Get returns a cached analysis. Expired or invalidated entries are removed.
func (c *ReportCache) Get(key string) (*domain.Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.generation != c.generation {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, false
	}

	c.moveToEnd(key)
	return entry.analysis, true
}

func (c *ReportCache) Put(key string, analysis *domain.Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{
		analysis:   analysis,
		timestamp:  time.Now(),
		generation: c.generation,
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Invalidate drops all entries.
func (c *ReportCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.generation++
}

func (c *ReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ReportCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ReportCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ReportCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
