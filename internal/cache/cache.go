package cache

import "time"

// Cache composes a Memory tier in front of a Disk tier, per SPEC_FULL.md
// §4.7: get checks memory, then disk (promoting on a disk hit); put writes
// both tiers, with disk write failures treated as best-effort and never
// failing the call. Hit/miss counters drive HitRate.
type Cache struct {
	memory *Memory
	disk   *Disk

	hits   int
	misses int
}

// Options configures a new composite Cache.
type Options struct {
	MaxMemoryBytes int
	MemoryTTL      time.Duration
	DiskDir        string
	DiskTTL        time.Duration
}

// New builds a composite Cache. DiskDir may be empty, in which case the
// cache runs memory-only (useful for tests and for callers with no
// filesystem budget).
func New(opts Options) *Cache {
	c := &Cache{memory: NewMemory(opts.MaxMemoryBytes, opts.MemoryTTL)}
	if opts.DiskDir != "" {
		c.disk = NewDisk(opts.DiskDir, opts.DiskTTL)
	}
	return c
}

// Get checks the memory tier first, then the disk tier. A disk hit is
// promoted into memory before returning, so the next Get of the same key is
// a memory hit.
func (c *Cache) Get(key string) ([]byte, bool) {
	if v, ok := c.memory.Get(key); ok {
		c.hits++
		return v, true
	}

	if c.disk != nil {
		if v, ok, err := c.disk.Get(key); err == nil && ok {
			c.memory.Put(key, v)
			c.hits++
			return v, true
		}
	}

	c.misses++
	return nil, false
}

// Put writes value to both tiers under key. The disk write is best-effort:
// its error (if any) is swallowed, since losing the durable copy never
// invalidates an in-memory resolve already in progress.
func (c *Cache) Put(key string, value []byte) {
	c.memory.Put(key, value)
	if c.disk != nil {
		_ = c.disk.Put(key, value)
	}
}

// HitRate returns hits / (hits + misses), or 0 if Get has never been called.
func (c *Cache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// Hits and Misses expose the raw counters HitRate is computed from.
func (c *Cache) Hits() int   { return c.hits }
func (c *Cache) Misses() int { return c.misses }

// CurrentMemorySize returns the memory tier's current byte usage.
func (c *Cache) CurrentMemorySize() int { return c.memory.CurrentSize() }
