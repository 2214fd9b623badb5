package ratelimit

import (
	"context"
	"sync"

	"github.com/edgard/lingvobot/internal/database"
)

type dayCount struct {
	day   string
	count int
}

// MemoryCounter keeps counts in process memory. Counts are lost on restart.
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[int64]dayCount
}

// NewMemoryCounter returns an empty in-memory counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[int64]dayCount)}
}

func (c *MemoryCounter) Count(_ context.Context, userID int64, day string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.counts[userID]
	if !ok || entry.day != day {
		return 0, nil
	}
	return entry.count, nil
}

func (c *MemoryCounter) Increment(_ context.Context, userID int64, day string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.counts[userID]
	if entry.day != day {
		entry = dayCount{day: day}
	}
	entry.count++
	c.counts[userID] = entry
	return entry.count, nil
}

// StoreCounter persists counts in the request_counters table.
type StoreCounter struct {
	store database.Store
}

// NewStoreCounter returns a counter backed by store.
func NewStoreCounter(store database.Store) *StoreCounter {
	return &StoreCounter{store: store}
}

func (c *StoreCounter) Count(ctx context.Context, userID int64, day string) (int, error) {
	return c.store.GetRequestCount(ctx, userID, day)
}

func (c *StoreCounter) Increment(ctx context.Context, userID int64, day string) (int, error) {
	return c.store.IncrementRequestCount(ctx, userID, day)
}
