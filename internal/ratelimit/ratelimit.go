package ratelimit

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrBudgetExhausted is returned by Use once the lookup budget is spent.
var ErrBudgetExhausted = errors.New("dictionary lookup budget exhausted")

// LookupBudget caps the number of dictionary requests made in one run
// and keeps request/cache statistics.
type LookupBudget struct {
	mu         sync.Mutex
	maxLookups int
	lookups    int
	failures   int
	cacheHits  int
	rejected   int
}

// NewLookupBudget creates a budget; maxLookups <= 0 means unlimited.
func NewLookupBudget(maxLookups int) *LookupBudget {
	return &LookupBudget{
		maxLookups: maxLookups,
	}
}

// Use reserves one request.
func (b *LookupBudget) Use() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxLookups > 0 && b.lookups >= b.maxLookups {
		b.rejected++
		if b.rejected == 1 {
			slog.Default().Warn("dictionary lookup budget reached, treating further words as not found",
				"max_lookups", b.maxLookups)
		}
		return ErrBudgetExhausted
	}

	b.lookups++
	return nil
}

func (b *LookupBudget) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
}

func (b *LookupBudget) RecordCacheHit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cacheHits++
}

// cacheHitRate returns the share of answers served from cache in percent.
func (b *LookupBudget) cacheHitRate() float64 {
	total := b.cacheHits + b.lookups
	if total == 0 {
		return 0
	}
	return float64(b.cacheHits) / float64(total) * 100
}

func (b *LookupBudget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"lookups":        b.lookups,
		"lookup_limit":   b.maxLookups,
		"failures":       b.failures,
		"rejected":       b.rejected,
		"cache_hits":     b.cacheHits,
		"cache_hit_rate": b.cacheHitRate(),
	}
}
