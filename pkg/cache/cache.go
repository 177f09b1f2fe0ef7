// Package cache holds the in-memory house cache and the Redis plumbing
// used by the token storage.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"house-inventory/internal/models"
	"house-inventory/pkg/logger"
)

// Defaults used when Options leaves a value unset.
const (
	DefaultListTTL       = 5 * time.Minute
	DefaultHouseTTL      = 10 * time.Minute
	DefaultSweepInterval = time.Minute
)

// CachedHouses is one cached list page.
type CachedHouses struct {
	Houses     []models.House
	Models     []models.HouseModel
	Grouped    []models.GroupedHouse
	TotalCount int
	TotalPages int
	Timestamp  time.Time
}

type Options struct {
	ListTTL       time.Duration
	HouseTTL      time.Duration
	SweepInterval time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

type Stats struct {
	ListSize  int
	HouseSize int
	Oldest    time.Time
	Newest    time.Time
}

type listEntry struct {
	data   CachedHouses
	expiry time.Time
}

type houseEntry struct {
	house  models.House
	expiry time.Time
}

// HouseCache keeps list pages and single houses in memory with per-entry
// expiry. Expired entries are invisible to readers and evicted on read; a
// sweeper started with Start removes the rest.
type HouseCache struct {
	mu       sync.Mutex
	lists    map[string]listEntry
	houses   map[string]houseEntry
	listTTL  time.Duration
	houseTTL time.Duration
	interval time.Duration
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewHouseCache(opts Options) *HouseCache {
	c := &HouseCache{
		lists:    make(map[string]listEntry),
		houses:   make(map[string]houseEntry),
		listTTL:  opts.ListTTL,
		houseTTL: opts.HouseTTL,
		interval: opts.SweepInterval,
		now:      opts.Now,
	}
	if c.listTTL <= 0 {
		c.listTTL = DefaultListTTL
	}
	if c.houseTTL <= 0 {
		c.houseTTL = DefaultHouseTTL
	}
	if c.interval <= 0 {
		c.interval = DefaultSweepInterval
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Start launches the background sweeper. It stops when ctx is done or Stop
// is called. Calling Start on a running cache is a no-op.
func (c *HouseCache) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.PurgeExpired(); n > 0 {
					logger.GlobalLogger.Debugf("house cache sweep: removed=%d", n)
				}
			}
		}
	}(c.done)
}

// Stop ends the sweeper and waits for it to exit.
func (c *HouseCache) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Get returns the list page stored under key if it has not expired.
func (c *HouseCache) Get(key string) (*CachedHouses, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lists[key]
	if !ok {
		recordMiss(listCache)
		return nil, false
	}
	if c.now().After(entry.expiry) {
		delete(c.lists, key)
		recordEvictions(listCache, reasonExpired, 1)
		recordMiss(listCache)
		return nil, false
	}
	recordHit(listCache)
	data := entry.data
	return &data, true
}

// Set stores a list page for ListTTL and stamps its Timestamp.
func (c *HouseCache) Set(key string, data CachedHouses) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	data.Timestamp = now
	c.lists[key] = listEntry{data: data, expiry: now.Add(c.listTTL)}
}

// GetHouse returns the cached house with id if it has not expired.
func (c *HouseCache) GetHouse(id string) (models.House, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.houses[id]
	if !ok {
		recordMiss(houseCache)
		return models.House{}, false
	}
	if c.now().After(entry.expiry) {
		delete(c.houses, id)
		recordEvictions(houseCache, reasonExpired, 1)
		recordMiss(houseCache)
		return models.House{}, false
	}
	recordHit(houseCache)
	return entry.house, true
}

// SetHouse stores a house for HouseTTL.
func (c *HouseCache) SetHouse(id string, house models.House) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.houses[id] = houseEntry{house: house, expiry: c.now().Add(c.houseTTL)}
}

// RemoveHouse evicts one house entry.
func (c *HouseCache) RemoveHouse(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.houses[id]; ok {
		delete(c.houses, id)
		recordEvictions(houseCache, reasonInvalidate, 1)
	}
}

// Clear drops every list entry. House entries are kept.
func (c *HouseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	recordEvictions(listCache, reasonInvalidate, len(c.lists))
	c.lists = make(map[string]listEntry)
}

// ClearHouses drops every house entry.
func (c *HouseCache) ClearHouses() {
	c.mu.Lock()
	defer c.mu.Unlock()
	recordEvictions(houseCache, reasonInvalidate, len(c.houses))
	c.houses = make(map[string]houseEntry)
}

func (c *HouseCache) ClearAll() {
	c.Clear()
	c.ClearHouses()
}

// InvalidateMatching drops list entries whose key contains pattern and
// returns how many were removed.
func (c *HouseCache) InvalidateMatching(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for key := range c.lists {
		if strings.Contains(key, pattern) {
			delete(c.lists, key)
			n++
		}
	}
	recordEvictions(listCache, reasonInvalidate, n)
	return n
}

// PurgeExpired removes expired entries of both kinds and returns how many
// were removed.
func (c *HouseCache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()

	var lists, houses int
	for key, entry := range c.lists {
		if now.After(entry.expiry) {
			delete(c.lists, key)
			lists++
		}
	}
	for id, entry := range c.houses {
		if now.After(entry.expiry) {
			delete(c.houses, id)
			houses++
		}
	}
	recordEvictions(listCache, reasonSweep, lists)
	recordEvictions(houseCache, reasonSweep, houses)
	return lists + houses
}

// Stats reports entry counts and the oldest and newest list timestamps.
// Expired entries not yet swept are counted.
func (c *HouseCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{ListSize: len(c.lists), HouseSize: len(c.houses)}
	for _, entry := range c.lists {
		ts := entry.data.Timestamp
		if s.Oldest.IsZero() || ts.Before(s.Oldest) {
			s.Oldest = ts
		}
		if ts.After(s.Newest) {
			s.Newest = ts
		}
	}
	return s
}
