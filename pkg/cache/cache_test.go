package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"house-inventory/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(clock *fakeClock) *HouseCache {
	return NewHouseCache(Options{
		ListTTL:  5 * time.Minute,
		HouseTTL: 10 * time.Minute,
		Now:      clock.Now,
	})
}

func TestGenerateKey(t *testing.T) {
	min := int64(1000)
	tests := []struct {
		name string
		p    *models.PaginationRequest
		f    *models.HouseFilter
		want string
	}{
		{"empty", nil, nil, "houses"},
		{"page only", &models.PaginationRequest{Page: 1, Limit: 10}, nil, "houses|page:1|limit:10"},
		{
			"filter order is fixed",
			&models.PaginationRequest{Page: 2, Limit: 10},
			&models.HouseFilter{Status: models.HouseStatusBooked, BlockNumber: "B", PriceRange: &models.PriceRange{Min: &min}},
			"houses|page:2|limit:10|blockNumber:B|minPrice:1000|status:booked",
		},
	}
	for _, tt := range tests {
		if got := GenerateKey(tt.p, tt.f); got != tt.want {
			t.Errorf("%s: GenerateKey = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestListTTLBoundary(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	c.Set("k", CachedHouses{TotalCount: 3})

	clock.Advance(5*time.Minute - time.Millisecond)
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("entry missing just before expiry")
	}
	if got.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", got.TotalCount)
	}

	clock.Advance(2 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry present just after expiry")
	}
	if s := c.Stats(); s.ListSize != 0 {
		t.Errorf("expired entry not evicted on read: ListSize = %d", s.ListSize)
	}
}

func TestHouseTTLBoundary(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	c.SetHouse("7", models.House{ID: "7"})

	clock.Advance(10*time.Minute - time.Millisecond)
	if _, ok := c.GetHouse("7"); !ok {
		t.Fatal("house missing just before expiry")
	}
	clock.Advance(2 * time.Millisecond)
	if _, ok := c.GetHouse("7"); ok {
		t.Fatal("house present just after expiry")
	}
}

func TestClearKeepsHouses(t *testing.T) {
	c := newTestCache(newFakeClock())
	c.Set("a", CachedHouses{})
	c.Set("b", CachedHouses{})
	c.SetHouse("1", models.House{ID: "1"})

	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("list entry survived Clear")
	}
	if _, ok := c.GetHouse("1"); !ok {
		t.Error("Clear removed a house entry")
	}

	c.RemoveHouse("1")
	if _, ok := c.GetHouse("1"); ok {
		t.Error("RemoveHouse did not evict")
	}
}

func TestInvalidateMatching(t *testing.T) {
	c := newTestCache(newFakeClock())
	c.Set(GenerateKey(&models.PaginationRequest{Page: 1, Limit: 10}, &models.HouseFilter{BlockNumber: "A"}), CachedHouses{})
	c.Set(GenerateKey(&models.PaginationRequest{Page: 1, Limit: 10}, &models.HouseFilter{BlockNumber: "B"}), CachedHouses{})
	c.Set(GenerateKey(&models.PaginationRequest{Page: 2, Limit: 10}, nil), CachedHouses{})

	if n := c.InvalidateMatching("blockNumber:A"); n != 1 {
		t.Errorf("InvalidateMatching removed %d, want 1", n)
	}
	if s := c.Stats(); s.ListSize != 2 {
		t.Errorf("ListSize = %d, want 2", s.ListSize)
	}
}

func TestPurgeExpiredAndStats(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	c.Set("old", CachedHouses{})
	first := clock.Now()
	clock.Advance(3 * time.Minute)
	c.Set("new", CachedHouses{})
	c.SetHouse("1", models.House{ID: "1"})

	s := c.Stats()
	if s.ListSize != 2 || s.HouseSize != 1 {
		t.Fatalf("Stats = %+v", s)
	}
	if !s.Oldest.Equal(first) || !s.Newest.Equal(clock.Now()) {
		t.Errorf("Oldest/Newest = %v/%v", s.Oldest, s.Newest)
	}

	clock.Advance(3 * time.Minute)
	if n := c.PurgeExpired(); n != 1 {
		t.Errorf("PurgeExpired removed %d, want 1", n)
	}
	clock.Advance(8 * time.Minute)
	if n := c.PurgeExpired(); n != 2 {
		t.Errorf("PurgeExpired removed %d, want 2", n)
	}
}

func TestSweeperLifecycle(t *testing.T) {
	clock := newFakeClock()
	c := NewHouseCache(Options{ListTTL: time.Minute, SweepInterval: 5 * time.Millisecond, Now: clock.Now})
	c.Set("k", CachedHouses{})
	clock.Advance(2 * time.Minute)

	c.Start(context.Background())
	c.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for c.Stats().ListSize != 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not purge the expired entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
	c.Stop()
	c.Stop()
}

func TestCacheErrorUnwrap(t *testing.T) {
	base := errors.New("connection refused")
	err := NewCacheError("get", base, true)
	if !errors.Is(err, base) {
		t.Error("CacheError should unwrap to the original error")
	}
	if err.Error() != "cache operation get failed: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}
