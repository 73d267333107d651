package engine

import (
	"sync"

	"github.com/kolkov/reggie/ast"
)

// DefaultCacheSize is used when NewCache is given a size below one.
const DefaultCacheSize = 100

// Cache holds compiled matchers with FIFO eviction. It is safe for
// concurrent use; hits are lock-free.
type Cache struct {
	cache   sync.Map   // map[string]Matcher - lock-free reads
	orderMu sync.Mutex // Protects order slice for eviction
	order   []string   // FIFO order for eviction
	size    int        // orderMu protects it
	maxSize int
	opts    Options // Options for compiled matchers
}

// NewCache creates a cache holding at most maxSize matchers.
func NewCache(maxSize int, opts Options) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		opts:    opts,
	}
}

// Get returns the matcher for p, compiling and caching it if needed.
// Patterns that render to the same text share an entry.
func (c *Cache) Get(p *ast.Pattern) (Matcher, error) {
	key := c.opts.Dialect.String() + "\x00" + ast.String(p)

	// Fast path: lock-free cache lookup via sync.Map
	if m, ok := c.cache.Load(key); ok {
		return m.(Matcher), nil
	}

	m, err := Compile(p, c.opts)
	if err != nil {
		return nil, err
	}

	// Another goroutine might have stored it already
	if existing, loaded := c.cache.LoadOrStore(key, m); loaded {
		return existing.(Matcher), nil
	}

	c.orderMu.Lock()
	c.order = append(c.order, key)
	c.size++
	for c.size > c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.cache.Delete(oldest)
		c.size--
	}
	c.orderMu.Unlock()

	return m, nil
}

// Len returns the number of cached matchers.
func (c *Cache) Len() int {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()
	return c.size
}

// Clear removes all cached matchers.
func (c *Cache) Clear() {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()
	for _, key := range c.order {
		c.cache.Delete(key)
	}
	c.order = c.order[:0]
	c.size = 0
}
