package probability

import (
	"sync"

	"nontransitive/dice"
)

// Cache memoizes Compute per dice set. A Set never changes after it is
// built, so its backing storage identifies it.
type Cache struct {
	mu      sync.Mutex
	entries map[*dice.Die]Matrix
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[*dice.Die]Matrix)}
}

// Get returns the matrix for set, computing it on first use.
func (c *Cache) Get(set dice.Set) Matrix {
	key := set.Identity()
	if key == nil {
		return Compute(set)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.entries[key]; ok {
		return m
	}
	m := Compute(set)
	c.entries[key] = m
	return m
}

// Len returns the number of cached sets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
