package printer

import (
	"sync"
	"time"
)

// Cache wraps a Registry with a TTL cache for lookups and enumeration
type Cache struct {
	Registry

	ttl time.Duration
	now func() time.Time

	mu          sync.RWMutex
	list        []Info
	lastRefresh time.Time
	lookups     map[string]cachedInfo
}

type cachedInfo struct {
	info Info
	at   time.Time
}

// NewCache creates a caching registry
func NewCache(registry Registry, ttl time.Duration) *Cache {
	return &Cache{
		Registry: registry,
		ttl:      ttl,
		now:      time.Now,
		lookups:  make(map[string]cachedInfo),
	}
}

// Lookup returns a cached printer or asks the registry. Failures are not cached.
func (c *Cache) Lookup(name string) (Info, error) {
	c.mu.RLock()
	hit, ok := c.lookups[name]
	c.mu.RUnlock()
	if ok && c.now().Sub(hit.at) < c.ttl {
		return cloneInfo(hit.info), nil
	}

	info, err := c.Registry.Lookup(name)
	if err != nil {
		return Info{}, err
	}

	c.mu.Lock()
	c.lookups[name] = cachedInfo{info: info, at: c.now()}
	c.mu.Unlock()

	return cloneInfo(info), nil
}

// List returns cached printers or refreshes if stale
func (c *Cache) List() ([]Info, error) {
	return c.list0(false)
}

// Refresh forces a new enumeration
func (c *Cache) Refresh() ([]Info, error) {
	return c.list0(true)
}

func (c *Cache) list0(forceRefresh bool) ([]Info, error) {
	c.mu.RLock()
	if !forceRefresh && c.fresh() {
		result := cloneList(c.list)
		c.mu.RUnlock()
		return result, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if !forceRefresh && c.fresh() {
		return cloneList(c.list), nil
	}

	printers, err := c.Registry.List()
	if err != nil {
		if c.list != nil {
			return cloneList(c.list), err // Return stale cache copy on error
		}
		return nil, err
	}

	c.list = printers
	c.lastRefresh = c.now()
	return cloneList(printers), nil
}

// SetDefault changes the default printer and drops the enumeration cache
func (c *Cache) SetDefault(name string) error {
	if err := c.Registry.SetDefault(name); err != nil {
		return err
	}
	c.mu.Lock()
	c.list = nil
	c.mu.Unlock()
	return nil
}

func (c *Cache) fresh() bool {
	return c.list != nil && c.now().Sub(c.lastRefresh) < c.ttl
}

func cloneList(in []Info) []Info {
	out := make([]Info, len(in))
	for i := range in {
		out[i] = cloneInfo(in[i])
	}
	return out
}

func cloneInfo(in Info) Info {
	if in.PaperNames != nil {
		in.PaperNames = append([]string(nil), in.PaperNames...)
	}
	return in
}
