package application

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/example/studio-scheduler/internal/studio"
)

// sessionCache keeps recently fetched backend sessions per studio and range
// so repeated calendar renders do not hit the backend.
type sessionCache struct {
	entries *expirable.LRU[string, cachedSessions]
}

type cachedSessions struct {
	sessions  []studio.ClassSession
	fetchedAt time.Time
}

func newSessionCache(ttl time.Duration, maxEntries int) *sessionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &sessionCache{entries: expirable.NewLRU[string, cachedSessions](maxEntries, nil, ttl)}
}

func (c *sessionCache) Get(key string) ([]studio.ClassSession, time.Time, bool) {
	if c == nil {
		return nil, time.Time{}, false
	}
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, time.Time{}, false
	}
	return studio.Clone(entry.sessions), entry.fetchedAt, true
}

func (c *sessionCache) Store(key string, sessions []studio.ClassSession, fetchedAt time.Time) {
	if c == nil {
		return
	}
	c.entries.Add(key, cachedSessions{sessions: studio.Clone(sessions), fetchedAt: fetchedAt})
}

func (c *sessionCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func sessionCacheKey(slug, from, to string) string {
	return slug + "|" + from + "|" + to
}
