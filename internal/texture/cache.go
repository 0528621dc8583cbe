package texture

import (
	"image"
	"sync"
)

// Resolver resolves a texture name to a decoded RGBA image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Failed loads are remembered so
// each path is read at most once.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*image.NRGBA
	failed map[string]error
	index  *Index
}

// NewCache creates a texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items:  make(map[string]*image.NRGBA),
		failed: make(map[string]error),
		index:  index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or
// undecodable.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	img, err := LoadTexture(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.items[path]; exists {
		return cached
	}
	c.items[path] = img
	if err != nil {
		c.failed[path] = err
	}
	return img
}

// Failures returns the decode errors seen so far.
func (c *Cache) Failures() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]error, 0, len(c.failed))
	for _, err := range c.failed {
		out = append(out, err)
	}
	return out
}
