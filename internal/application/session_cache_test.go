package application

import (
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/studio"
)

func TestSessionCacheStoresAndReturnsCopies(t *testing.T) {
	t.Parallel()

	cache := newSessionCache(time.Minute, 4)
	fetched := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	original := []studio.ClassSession{{ID: "session-1", ClassName: "Salsa"}}
	cache.Store("key", original, fetched)

	// Mutating the original slice should not affect the cached copy.
	original[0].ClassName = "mutated"

	cached, at, ok := cache.Get("key")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if cached[0].ClassName != "Salsa" || !at.Equal(fetched) {
		t.Fatalf("unexpected cached entry %+v at %v", cached, at)
	}

	// Mutating the returned slice should not be visible on subsequent reads.
	cached[0].ClassName = "changed"
	again, _, _ := cache.Get("key")
	if again[0].ClassName != "Salsa" {
		t.Fatalf("expected cache to return independent copy, got %s", again[0].ClassName)
	}
}

func TestSessionCacheExpiresEntries(t *testing.T) {
	t.Parallel()

	cache := newSessionCache(20*time.Millisecond, 4)
	cache.Store("key", []studio.ClassSession{{ID: "session-1"}}, time.Now())
	if _, _, ok := cache.Get("key"); !ok {
		t.Fatalf("expected cache hit before expiry")
	}

	time.Sleep(60 * time.Millisecond)
	if _, _, ok := cache.Get("key"); ok {
		t.Fatalf("expected cache entry to expire")
	}
}

func TestSessionCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	cache := newSessionCache(time.Minute, 2)
	cache.Store("a", nil, time.Now())
	cache.Store("b", nil, time.Now())
	cache.Get("a")
	cache.Store("c", nil, time.Now())

	if cache.Len() != 2 {
		t.Fatalf("expected cache to stay bounded, got %d entries", cache.Len())
	}
	if _, _, ok := cache.Get("b"); ok {
		t.Fatalf("expected least recently used entry to be evicted")
	}
	if _, _, ok := cache.Get("a"); !ok {
		t.Fatalf("expected recently used entry to survive")
	}
}

func TestNilSessionCache(t *testing.T) {
	t.Parallel()

	var cache *sessionCache
	cache.Store("key", nil, time.Now())
	if _, _, ok := cache.Get("key"); ok {
		t.Fatalf("expected nil cache to miss")
	}
}
