package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"carmod-configurator/models"
)

// compatibilitySet is every compatibility row of one (make, model) plus the
// calendar year of each year id those rows mention.
type compatibilitySet struct {
	rows  []models.Compatibility
	years map[uuid.UUID]int
}

// yearsFor returns the calendar years the product is declared for, merged across rows
func (s *compatibilitySet) yearsFor(productID uuid.UUID) map[int]bool {
	out := map[int]bool{}
	for _, row := range s.rows {
		if row.ProductID != productID {
			continue
		}
		for _, yearID := range row.YearIDs {
			if year, ok := s.years[yearID]; ok {
				out[year] = true
			}
		}
	}
	return out
}

type cacheEntry struct {
	set      *compatibilitySet
	loadedAt time.Time
}

// compatibilityCache keeps one compatibilitySet per (make, model). Concurrent
// misses on a key share one load. A generation counter per key drops loads
// that started before an invalidation.
type compatibilityCache struct {
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	group       singleflight.Group

	mu          sync.Mutex
	entries     map[string]cacheEntry
	generations map[string]uint64
	epoch       uint64
}

func newCompatibilityCache(ttl, loadTimeout time.Duration) *compatibilityCache {
	if loadTimeout <= 0 {
		loadTimeout = DefaultTimeout
	}
	return &compatibilityCache{
		ttl:         ttl,
		loadTimeout: loadTimeout,
		now:         time.Now,
		entries:     map[string]cacheEntry{},
		generations: map[string]uint64{},
	}
}

func cacheKey(makeID, modelID uuid.UUID) string {
	return makeID.String() + ":" + modelID.String()
}

type loadFunc func(ctx context.Context) (*compatibilitySet, error)

func (c *compatibilityCache) get(ctx context.Context, makeID, modelID uuid.UUID, load loadFunc) (*compatibilitySet, error) {
	key := cacheKey(makeID, modelID)

	c.mu.Lock()
	entry, ok := c.entries[key]
	if _, seen := c.generations[key]; !seen {
		c.generations[key] = 0
	}
	generation := c.generationLocked(key)
	c.mu.Unlock()

	if ok && c.now().Sub(entry.loadedAt) < c.ttl {
		return entry.set, nil
	}

	result, err, shared := c.group.Do(key, func() (interface{}, error) {
		// the load is shared, so one caller giving up must not fail the others
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		set, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.ttl > 0 && c.generationLocked(key) == generation {
			c.entries[key] = cacheEntry{set: set, loadedAt: c.now()}
		}
		c.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debugf("🔁 compatibilityCache: shared load for %s", key)
	}
	return result.(*compatibilitySet), nil
}

func (c *compatibilityCache) generationLocked(key string) uint64 {
	return c.epoch + c.generations[key]
}

func (c *compatibilityCache) invalidate(makeID, modelID uuid.UUID) {
	key := cacheKey(makeID, modelID)
	c.mu.Lock()
	delete(c.entries, key)
	c.generations[key]++
	c.mu.Unlock()
	c.group.Forget(key)
}

func (c *compatibilityCache) invalidateAll() {
	c.mu.Lock()
	for key := range c.generations {
		c.group.Forget(key)
	}
	c.entries = map[string]cacheEntry{}
	c.epoch++
	c.mu.Unlock()
}
