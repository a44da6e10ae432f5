// Package cache is a small query cache keyed by segment lists such as
// ["orderById", "12"]. Invalidating a prefix drops every key below it.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const keySep = "\x1f"

// Invalidation keys used across services.
const (
	KeyOrders       = "orders"
	KeyOrderByID    = "orderById"
	KeyOrderList    = "orderList"
	KeyCartList     = "cartList"
	KeyMenuList     = "menuList"
	KeyCategoryList = "categoryList"
	KeyCityList     = "cityList"
	KeyContactsList = "contactsList"
	KeyAdminUsers   = "adminUsers"
	KeyAdminCarts   = "adminCarts"
	KeyMyRestaurant = "myRestaurant"
	KeyVisitors     = "visitors"
	KeyDashboard    = "dashboard"
)

type entry struct {
	key     []string
	value   any
	expires time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
	gen     uint64 // bumped by every Invalidate
	group   singleflight.Group
}

// New creates a cache whose entries stay fresh for ttl. A ttl of zero
// disables caching; Fetch then always loads.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func join(key []string) string {
	return strings.Join(key, keySep)
}

// Get returns a fresh value for key.
func (c *Cache) Get(key ...string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[join(key)]
	if !ok || !c.now().Before(e.expires) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key.
func (c *Cache) Set(key []string, value any) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value)
}

// setAt stores value only if nothing was invalidated since generation gen.
func (c *Cache) setAt(gen uint64, key []string, value any) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.store(key, value)
}

func (c *Cache) store(key []string, value any) {
	c.entries[join(key)] = entry{
		key:     append([]string(nil), key...),
		value:   value,
		expires: c.now().Add(c.ttl),
	}
}

func (c *Cache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Invalidate drops every entry whose key starts with prefix and returns how
// many were dropped. An empty prefix clears the cache.
func (c *Cache) Invalidate(prefix ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	n := 0
	for k, e := range c.entries {
		if hasPrefix(e.key, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Keys returns the keys currently stored, fresh or not.
func (c *Cache) Keys() [][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([][]string, 0, len(c.entries))
	for _, e := range c.entries {
		keys = append(keys, append([]string(nil), e.key...))
	}
	return keys
}

// Has reports whether any entry starts with prefix.
func (c *Cache) Has(prefix ...string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if hasPrefix(e.key, prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(key, prefix []string) bool {
	if len(prefix) > len(key) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Fetch returns the cached value for key or loads and stores it. Concurrent
// misses on the same key share one load. Errors are never cached, and a load
// that was overtaken by an Invalidate is returned to its callers but not
// stored; callers arriving after the Invalidate start a new load.
func Fetch[T any](ctx context.Context, c *Cache, key []string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key...); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	gen := c.generation()
	flight := join(key) + keySep + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.setAt(gen, key, loaded)
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
