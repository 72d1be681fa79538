package engine

import (
	"sync"

	"github.com/yourusername/checkers/internal/positionid"
)

// Cache constants
const (
	DefaultCacheSize = 1 << 18 // 256K entries (~6MB)
	CacheHit         = ^uint32(0)
)

// CacheEntry stores a cached search score
type CacheEntry struct {
	Key     positionid.PositionKey // Position key (4 uint32s = 16 bytes)
	Context int32                  // Search context (depth, side to move, rules)
	Score   int32
}

// AnalysisCache is a thread-safe cache of search scores.
// Uses a two-way associative cache with MurmurHash3-based indexing
type AnalysisCache struct {
	entries  []cacheNode
	size     uint32
	hashMask uint32

	// Statistics
	lookups uint64
	hits    uint64
	adds    uint64

	mu sync.RWMutex
}

// cacheNode holds primary and secondary entries for two-way associative cache
type cacheNode struct {
	primary   CacheEntry
	secondary CacheEntry
}

// CacheStats is a snapshot of cache statistics
type CacheStats struct {
	Size    uint32
	Lookups uint64
	Hits    uint64
	Adds    uint64
	HitRate float64 // Percent
}

// NewAnalysisCache creates a cache with the given number of entries,
// rounded up to a power of 2
func NewAnalysisCache(size uint32) *AnalysisCache {
	if size > 1<<31 {
		size = 1 << 31
	}
	if size < 2 {
		size = 2
	}

	p := uint32(1)
	for p < size {
		p <<= 1
	}
	size = p

	cache := &AnalysisCache{
		entries:  make([]cacheNode, size/2),
		size:     size,
		hashMask: (size / 2) - 1,
	}

	cache.Flush()
	return cache
}

// invalidKey cannot come from a real board: nibble value 15 is not a square code
var invalidKey = positionid.PositionKey{Data: [4]uint32{^uint32(0), 0, 0, 0}}

// Flush clears all entries and statistics
func (c *AnalysisCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i].primary.Key = invalidKey
		c.entries[i].secondary.Key = invalidKey
	}
	c.lookups = 0
	c.hits = 0
	c.adds = 0
}

// hash computes the slot for a key using MurmurHash3-style mixing
func (c *AnalysisCache) hash(key positionid.PositionKey, context int32) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	h := uint32(0)

	for _, k := range key.Data {
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	k := uint32(context)
	k *= c1
	k = (k << 15) | (k >> 17)
	k *= c2
	h ^= k

	// Finalization
	h ^= 20
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

// Lookup checks if a position is in the cache.
// Returns CacheHit with the score if found, otherwise the slot to pass to Add
func (c *AnalysisCache) Lookup(key positionid.PositionKey, context int32) (int, uint32) {
	slot := c.hash(key, context)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookups++
	node := &c.entries[slot]

	if positionid.EqualKeys(node.primary.Key, key) && node.primary.Context == context {
		c.hits++
		return int(node.primary.Score), CacheHit
	}
	if positionid.EqualKeys(node.secondary.Key, key) && node.secondary.Context == context {
		c.hits++
		return int(node.secondary.Score), CacheHit
	}
	return 0, slot
}

// Add stores a score in the slot returned by a previous Lookup miss
func (c *AnalysisCache) Add(key positionid.PositionKey, context int32, score int, slot uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.entries[slot]

	// Move primary to secondary, add new as primary
	node.secondary = node.primary
	node.primary = CacheEntry{
		Key:     key,
		Context: context,
		Score:   int32(score),
	}

	c.adds++
}

// Stats returns cache statistics
func (c *AnalysisCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{
		Size:    c.size,
		Lookups: c.lookups,
		Hits:    c.hits,
		Adds:    c.adds,
	}
	if c.lookups > 0 {
		stats.HitRate = float64(c.hits) / float64(c.lookups) * 100
	}
	return stats
}

// MakeSearchContext packs the search parameters that affect a score
func MakeSearchContext(depth int, sideToMove Side, rules Rules) int32 {
	// Bit layout:
	// Bits 0-7: depth (0-255)
	// Bit 8: side to move is WHITE
	// Bit 9: slides
	// Bit 10: mandatory capture
	ctx := int32(depth & 0xFF)
	if sideToMove == White {
		ctx |= 1 << 8
	}
	if rules.Slides {
		ctx |= 1 << 9
	}
	if rules.MandatoryCapture {
		ctx |= 1 << 10
	}
	return ctx
}
