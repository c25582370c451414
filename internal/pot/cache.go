package pot

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// potCache is a read-through LRU of pot master records with time-based expiry
type potCache struct {
	lru *expirable.LRU[string, domain.Pot]
}

func newPotCache(size int, ttl time.Duration) *potCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &potCache{lru: expirable.NewLRU[string, domain.Pot](size, nil, ttl)}
}

// Get returns a copy of the cached pot
func (c *potCache) Get(potID string) (*domain.Pot, bool) {
	p, ok := c.lru.Get(potID)
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *potCache) Set(p *domain.Pot) {
	c.lru.Add(p.ID, *p)
}

func (c *potCache) Invalidate(potID string) {
	c.lru.Remove(potID)
}

func (c *potCache) Len() int {
	return c.lru.Len()
}
