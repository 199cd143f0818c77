// Package keycache holds intermediate derived key material keyed by seed
// fingerprint and path prefix, so repeated derivations under the same
// application skip the expensive part of the tree walk. Entries are
// evicted by LRU overflow immediately and by TTL lazily on lookup.
package keycache

import (
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"entropyd/go-core/internal/derivation"
	"entropyd/go-core/internal/hardening"
	"entropyd/go-core/pkg/models"
)

const (
	DefaultCapacity = 128
	DefaultTTL      = 15 * time.Minute
)

type Config struct {
	Capacity int
	TTL      time.Duration
}

// Deriver computes the key material for a cache miss.
type Deriver func() (*derivation.DerivedKey, error)

type entry struct {
	material   []byte
	insertedAt time.Time
}

// Cache is an explicitly constructed LRU+TTL cache; there is no process
// singleton, callers own their instance. A nil *Cache degrades every call
// to uncached derivation.
type Cache struct {
	mu    sync.Mutex
	store *lru.Cache[string, *entry]
	ttl   time.Duration
	group singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

func New(cfg Config, reg prometheus.Registerer) (*Cache, error) {
	if cfg.Capacity < 1 {
		cfg.Capacity = DefaultCapacity
	}
	c := &Cache{ttl: cfg.TTL}
	store, err := lru.NewWithEvict(cfg.Capacity, func(_ string, e *entry) {
		hardening.WipeBytes(e.material)
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.store = store
	if reg != nil {
		c.registerMetrics(reg)
	}
	return c, nil
}

// GetOrDerive returns a fresh copy of the cached key material for
// (fingerprint, prefix), deriving and inserting it on a miss. Concurrent
// misses for the same key are collapsed into a single derivation; waiters
// read the freshly inserted entry instead of recomputing. Every caller
// owns (and must wipe) the returned copy.
func (c *Cache) GetOrDerive(fingerprint string, prefix []byte, derive Deriver) (*derivation.DerivedKey, error) {
	if c == nil {
		return derive()
	}
	key := fingerprint + "/" + hex.EncodeToString(prefix)

	if dk, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return dk, nil
	}
	c.misses.Add(1)

	_, err, _ := c.group.Do(key, func() (any, error) {
		if c.contains(key) {
			return nil, nil
		}
		dk, err := derive()
		if err != nil {
			return nil, err
		}
		c.insert(key, dk)
		dk.Wipe()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	if dk, ok := c.lookup(key); ok {
		return dk, nil
	}
	// Entry evicted between fill and read: fail open to an uncached walk.
	return derive()
}

// Clear purges every entry and scrubs the stored key material. This is
// the only way to force a full wipe before process exit.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Purge()
}

func (c *Cache) Stats() models.CacheStats {
	if c == nil {
		return models.CacheStats{}
	}
	c.mu.Lock()
	size := c.store.Len()
	c.mu.Unlock()
	return models.CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      size,
	}
}

// lookup copies a live entry out under the cache lock. Expired entries
// are dropped here; the wipe in the eviction callback runs under the same
// lock, so a reader can never observe a half-scrubbed buffer.
func (c *Cache) lookup(key string) (*derivation.DerivedKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(e.insertedAt) > c.ttl {
		c.store.Remove(key)
		return nil, false
	}
	dk, err := derivation.KeyFromMaterial(e.material)
	if err != nil {
		c.store.Remove(key)
		return nil, false
	}
	return dk, true
}

func (c *Cache) contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.store.Get(key)
	if !ok {
		return false
	}
	if c.ttl > 0 && time.Since(e.insertedAt) > c.ttl {
		c.store.Remove(key)
		return false
	}
	return true
}

func (c *Cache) insert(key string, dk *derivation.DerivedKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Add(key, &entry{material: dk.Material(), insertedAt: time.Now()})
}

func (c *Cache) registerMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "entropyd",
			Subsystem: "keycache",
			Name:      "hits_total",
			Help:      "Cache hits on derived key material.",
		}, func() float64 { return float64(c.hits.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "entropyd",
			Subsystem: "keycache",
			Name:      "misses_total",
			Help:      "Cache misses on derived key material.",
		}, func() float64 { return float64(c.misses.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "entropyd",
			Subsystem: "keycache",
			Name:      "evictions_total",
			Help:      "Entries evicted by LRU overflow, TTL expiry or Clear.",
		}, func() float64 { return float64(c.evictions.Load()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "entropyd",
			Subsystem: "keycache",
			Name:      "entries",
			Help:      "Entries currently cached.",
		}, func() float64 {
			c.mu.Lock()
			defer c.mu.Unlock()
			return float64(c.store.Len())
		}),
	)
}
