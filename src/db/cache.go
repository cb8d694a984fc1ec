package db

import (
	"fmt"
	"sync"

	"gajanji-server/src/insights"

	"github.com/dgraph-io/ristretto/v2"
)

// ViewCache holds computed category views. Keys are tracked per user so that a
// write to one user's transactions drops every cached view of that user.
// Every invalidation bumps the user's generation; a view computed under an
// older generation is never stored.
type ViewCache struct {
	cache *ristretto.Cache[string, insights.CategoryView]

	mu     sync.Mutex
	byUser map[string]map[string]struct{}
	gen    map[string]uint64
	epoch  uint64
}

func NewViewCache(maxCost int64) (*ViewCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, insights.CategoryView]{
		NumCounters: maxCost * 10, // number of keys to track frequency of
		MaxCost:     maxCost,
		BufferItems: 64, // number of keys per Get buffer
		// every view costs 1 so MaxCost is a view count
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &ViewCache{
		cache:  c,
		byUser: make(map[string]map[string]struct{}),
		gen:    make(map[string]uint64),
	}, nil
}

// categoryKey identifies a user's category view for a period selector.
func categoryKey(userID string, sel insights.PeriodSelector) string {
	return fmt.Sprintf("categories:%s:%s:%s:%s:%s", userID, sel.Period, sel.Year, sel.Month, sel.Week)
}

func (c *ViewCache) GetCategories(userID string, sel insights.PeriodSelector) (insights.CategoryView, bool) {
	return c.cache.Get(categoryKey(userID, sel))
}

// Generation returns the token to pass to SetCategories. Read it before
// loading the rows the view is computed from.
func (c *ViewCache) Generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch + c.gen[userID]
}

// SetCategories stores view unless the user was invalidated after gen was read.
func (c *ViewCache) SetCategories(userID string, sel insights.PeriodSelector, view insights.CategoryView, gen uint64) bool {
	key := categoryKey(userID, sel)
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.epoch+c.gen[userID] {
		return false
	}
	keys, ok := c.byUser[userID]
	if !ok {
		keys = make(map[string]struct{})
		c.byUser[userID] = keys
	}
	keys[key] = struct{}{}
	// under mu so the buffered Set is ordered before any later Del
	return c.cache.Set(key, view, 1)
}

// InvalidateUser drops every cached view belonging to userID.
func (c *ViewCache) InvalidateUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[userID]++
	for key := range c.byUser[userID] {
		c.cache.Del(key)
	}
	delete(c.byUser, userID)
}

func (c *ViewCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.byUser = make(map[string]map[string]struct{})
	c.cache.Clear()
}

// Wait blocks until buffered writes are applied.
func (c *ViewCache) Wait() {
	c.cache.Wait()
}

func (c *ViewCache) Close() {
	c.cache.Close()
}
