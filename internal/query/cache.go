// Package query is the cache layer between the HTTP surface and the stores.
// Reads are keyed by entity kind plus scope ids so concurrent requests for
// the same scope share one in-flight call and one cached result; mutations
// invalidate dependent keys by explicit prefix match.
package query

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wanderplan/wanderplan-backend/logger"
)

// KeySeparator joins the parts of a structured cache key.
const KeySeparator = ":"

// Cache is a read-through cache with a staleness window. A zero staleAfter
// means results never go stale, which is how the fixture source is wired
// (fixtures are static, so refetching is pointless).
type Cache struct {
	entries    *gocache.Cache
	group      singleflight.Group
	staleAfter time.Duration
	log        *zap.SugaredLogger
}

type entry struct {
	value     interface{}
	fetchedAt time.Time
}

// New creates a Cache. staleAfter is the freshness window for cached reads;
// pass 0 for never-stale behavior.
func New(staleAfter time.Duration) *Cache {
	return &Cache{
		entries:    gocache.New(gocache.NoExpiration, 10*time.Minute),
		staleAfter: staleAfter,
		log:        logger.GetLogger(),
	}
}

// Key builds a structured cache key. If any scope part is empty the key is
// empty, which callers treat as "do not run this query".
func Key(parts ...string) string {
	for _, p := range parts {
		if p == "" {
			return ""
		}
	}
	return strings.Join(parts, KeySeparator)
}

// GetOrFetch returns the cached value for key, fetching on a miss. A stale
// hit returns the cached value immediately and refreshes in the background.
// Concurrent misses for the same key share a single fetch.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	if key == "" {
		return nil, nil
	}

	if raw, found := c.entries.Get(key); found {
		e := raw.(entry)
		if c.staleAfter == 0 || time.Since(e.fetchedAt) < c.staleAfter {
			return e.value, nil
		}
		c.refreshInBackground(key, fetch)
		return e.value, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.entries.Set(key, entry{value: v, fetchedAt: time.Now()}, gocache.NoExpiration)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// refreshInBackground refetches a stale key without blocking the caller. The
// request detaches from the caller's context since the caller already has a
// usable (stale) value.
func (c *Cache) refreshInBackground(key string, fetch func(context.Context) (interface{}, error)) {
	go func() {
		_, err, _ := c.group.Do(key, func() (interface{}, error) {
			v, err := fetch(context.Background())
			if err != nil {
				return nil, err
			}
			c.entries.Set(key, entry{value: v, fetchedAt: time.Now()}, gocache.NoExpiration)
			return v, nil
		})
		if err != nil {
			c.log.Warnw("Background refresh failed", "key", key, "error", err)
		}
	}()
}

// InvalidatePrefix drops every cached entry whose key starts with one of the
// given prefixes. Invalidation is explicit; there is no dependency tracking.
func (c *Cache) InvalidatePrefix(prefixes ...string) {
	for key := range c.entries.Items() {
		for _, prefix := range prefixes {
			if prefix != "" && strings.HasPrefix(key, prefix) {
				c.entries.Delete(key)
				break
			}
		}
	}
}

// Flush drops all cached entries.
func (c *Cache) Flush() {
	c.entries.Flush()
}

// Fetch is the typed read path. An empty key means the query is out of scope
// (e.g. an empty id) and the zero value is returned without fetching.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if key == "" {
		return zero, nil
	}
	raw, err := c.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	return raw.(T), nil
}

// MutationStatus reflects the lifecycle of a mutation as seen by callers.
type MutationStatus string

const (
	MutationSuccess MutationStatus = "success"
	MutationError   MutationStatus = "error"
)

// MutationResult carries the outcome of a mutation plus its status tag.
type MutationResult[T any] struct {
	Status MutationStatus
	Value  T
	Err    error
}

// Mutate runs a mutation and, only on success, invalidates the cache entries
// under the given key prefixes. A failed mutation leaves all caches
// untouched; there is no retry.
func Mutate[T any](ctx context.Context, c *Cache, fn func(context.Context) (T, error), invalidatePrefixes ...string) MutationResult[T] {
	value, err := fn(ctx)
	if err != nil {
		return MutationResult[T]{Status: MutationError, Err: err}
	}
	c.InvalidatePrefix(invalidatePrefixes...)
	return MutationResult[T]{Status: MutationSuccess, Value: value}
}
