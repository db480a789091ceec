package client

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/initializ/untis/jsonrpc"
	"github.com/initializ/untis/logging"
)

// Cache defaults.
const (
	DefaultCacheSize    = 1000
	DefaultCacheTTL     = 10 * time.Minute
	DefaultRefreshAfter = time.Minute

	refreshTimeout = 30 * time.Second
)

// CacheConfig configures a Cache. Zero values fall back to the defaults; a
// negative RefreshAfter disables background refreshes.
type CacheConfig struct {
	Size         int
	TTL          time.Duration
	RefreshAfter time.Duration
	Logger       logging.Logger
}

// Loader fetches a fresh response for a cache key.
type Loader func(ctx context.Context) (*jsonrpc.Response, error)

type cacheEntry struct {
	resp    *jsonrpc.Response
	written time.Time
}

// Cache is a size-bounded response cache with expire-after-write and
// refresh-after-write semantics. Entries older than RefreshAfter are still
// served while a single background load replaces them; entries older than
// TTL are gone. Failed loads are never stored.
type Cache struct {
	entries      *expirable.LRU[string, cacheEntry]
	refreshAfter time.Duration
	group        singleflight.Group
	logger       logging.Logger
	now          func() time.Time

	mu         sync.Mutex
	refreshing map[string]struct{}
	wg         sync.WaitGroup
}

// NewCache creates a Cache.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.RefreshAfter == 0 {
		cfg.RefreshAfter = DefaultRefreshAfter
	}
	return &Cache{
		entries:      expirable.NewLRU[string, cacheEntry](cfg.Size, nil, cfg.TTL),
		refreshAfter: cfg.RefreshAfter,
		logger:       logging.OrNop(cfg.Logger),
		now:          time.Now,
		refreshing:   make(map[string]struct{}),
	}
}

// Get returns the cached response for key, calling load on a miss.
// Concurrent misses for the same key share one load. The shared load is not
// bound to any single caller's context; each caller stops waiting when its
// own ctx is done.
func (c *Cache) Get(ctx context.Context, key string, load Loader) (*jsonrpc.Response, error) {
	if e, ok := c.entries.Get(key); ok {
		if c.refreshAfter > 0 && c.now().Sub(e.written) >= c.refreshAfter {
			c.refresh(key, load)
		}
		return e.resp, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		resp, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, cacheEntry{resp: resp, written: c.now()})
		return resp, nil
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*jsonrpc.Response), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refresh reloads key in the background unless a reload is already running.
func (c *Cache) refresh(key string, load Loader) {
	c.mu.Lock()
	if _, busy := c.refreshing[key]; busy {
		c.mu.Unlock()
		return
	}
	c.refreshing[key] = struct{}{}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.refreshing, key)
			c.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		resp, err := load(ctx)
		if err != nil {
			// keep serving the old entry until it expires
			c.logger.Warn("cache refresh failed", map[string]any{"key": key, "error": err})
			return
		}
		c.entries.Add(key, cacheEntry{resp: resp, written: c.now()})
	}()
}

// Wait blocks until running background refreshes have finished.
func (c *Cache) Wait() { c.wg.Wait() }

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (c *Cache) Len() int { return c.entries.Len() }

// Purge drops every entry.
func (c *Cache) Purge() { c.entries.Purge() }
