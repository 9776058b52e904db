package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/brokeragehq/backoffice/internal/models"
)

const (
	actorCacheTTL      = 5 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("user not found (cached)")

type cachedActor struct {
	user      *models.User // nil marks a cached lookup failure
	fetchedAt time.Time
}

// ttl returns the appropriate TTL for this entry.
func (ca cachedActor) ttl() time.Duration {
	if ca.user == nil {
		return negativeCacheTTL
	}

	return actorCacheTTL
}

// hashKey returns a hex-encoded SHA-256 hash of the API key so raw keys
// are never stored in memory.
func hashKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))

	return hex.EncodeToString(h[:])
}

// CachedActorLookup wraps an ActorLookup with a bounded in-memory cache.
type CachedActorLookup struct {
	inner ActorLookup
	mu    sync.RWMutex
	cache map[string]cachedActor
}

// NewCachedActorLookup creates a caching wrapper around the given lookup.
// The provided context controls the lifetime of the background eviction
// goroutine.
func NewCachedActorLookup(ctx context.Context, inner ActorLookup) *CachedActorLookup {
	c := &CachedActorLookup{
		inner: inner,
		cache: make(map[string]cachedActor),
	}
	go c.evictLoop(ctx)

	return c
}

// evictLoop periodically removes expired entries from the cache.
func (c *CachedActorLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.cache {
				if now.Sub(v.fetchedAt) >= v.ttl() {
					delete(c.cache, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// GetUserByAPIKey returns a cached user or delegates to the inner lookup.
// Failed lookups are negatively cached for 30s to prevent brute-force DB
// hammering.
func (c *CachedActorLookup) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	hk := hashKey(apiKey)

	c.mu.RLock()
	entry, ok := c.cache[hk]
	if ok && time.Since(entry.fetchedAt) < entry.ttl() {
		c.mu.RUnlock()

		if entry.user == nil {
			return nil, errCachedNotFound
		}

		return entry.user, nil
	}
	c.mu.RUnlock()

	user, err := c.inner.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		c.mu.Lock()
		c.cache[hk] = cachedActor{user: nil, fetchedAt: time.Now()}
		c.mu.Unlock()

		return nil, err
	}

	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		// Evict expired entries, then trim if still over limit.
		now := time.Now()
		for k, v := range c.cache {
			if now.Sub(v.fetchedAt) >= v.ttl() {
				delete(c.cache, k)
			}
		}

		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}

			delete(c.cache, k)
		}
	}
	c.cache[hk] = cachedActor{user: user, fetchedAt: time.Now()}
	c.mu.Unlock()

	return user, nil
}
