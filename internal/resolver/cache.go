package resolver

import "sync"

// Cache wraps another Resolver and memoizes Find by class name. A single
// verification job wraps its whole layered classpath in one of these, so
// a class that is referenced from many methods is parsed exactly once and
// every reference site sees the same NotFound/FailedToRead/Invalid result
// and reason. Memoizing does not collapse problem reports: each reference
// site that sees a failed lookup reports it at its own location, and the
// registrar dedups only reports with equal CanonicalKeys.
type Cache struct {
	inner Resolver

	mu    sync.Mutex
	cache map[string]Resolution
}

func NewCache(inner Resolver) *Cache {
	return &Cache{inner: inner, cache: make(map[string]Resolution)}
}

func (c *Cache) Find(name string) Resolution {
	c.mu.Lock()
	if res, ok := c.cache[name]; ok {
		c.mu.Unlock()
		return res
	}
	c.mu.Unlock()

	res := c.inner.Find(name)

	c.mu.Lock()
	c.cache[name] = res
	c.mu.Unlock()
	return res
}

func (c *Cache) Contains(name string) bool {
	c.mu.Lock()
	if res, ok := c.cache[name]; ok {
		c.mu.Unlock()
		return res.Kind == Found
	}
	c.mu.Unlock()
	return c.inner.Contains(name)
}

func (c *Cache) AllClassNames() []string { return c.inner.AllClassNames() }
func (c *Cache) ClassPath() []string     { return c.inner.ClassPath() }

func (c *Cache) Close() error {
	c.mu.Lock()
	c.cache = nil
	c.mu.Unlock()
	return c.inner.Close()
}
