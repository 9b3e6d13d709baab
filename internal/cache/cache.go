package cache

import (
	"sync"
)

// Memo remembers computed values for the lifetime of the value itself.
// It never evicts and never persists.
type Memo[K comparable, V any] struct {
	mu     sync.RWMutex
	items  map[K]V
	hits   int
	misses int
}

func New[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{
		items: make(map[K]V),
	}
}

// GetOrCompute returns the value stored for key. On a miss it runs compute
// and stores the result unless compute failed. The lock is held while
// compute runs, so compute must not use the memo.
func (c *Memo[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, exists := c.items[key]; exists {
		c.hits++
		return value, nil
	}
	c.misses++

	value, err := compute()
	if err != nil {
		return value, err
	}
	c.items[key] = value
	return value, nil
}

func (c *Memo[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

func (c *Memo[K, V]) GetStats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]int{
		"items":  len(c.items),
		"hits":   c.hits,
		"misses": c.misses,
	}
}
