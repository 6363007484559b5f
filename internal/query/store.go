// internal/query/store.go
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"archnet/internal/cache"
)

// FetchFunc loads fresh data for a key when the cache has nothing usable.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Store layers query semantics over the raw cache: typed keys, JSON encoding,
// and single-flight deduplication so concurrent readers of the same key share
// one upstream fetch instead of issuing N.
type Store struct {
	cache  cache.Cache
	group  singleflight.Group
	ttl    time.Duration
	logger *zap.Logger
}

// Config holds query store configuration.
type Config struct {
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a default query store configuration.
func DefaultConfig() *Config {
	return &Config{TTL: 5 * time.Minute}
}

// NewStore creates a query store over an underlying cache.
func NewStore(c cache.Cache, config *Config, logger *zap.Logger) *Store {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{cache: c, ttl: config.TTL, logger: logger}
}

// GetOrFetch returns the cached value for key, fetching and caching it on a
// miss. The fetched value is JSON-decoded into dest. Concurrent callers with
// the same key while a fetch is in flight all wait on that single fetch.
// A fetch error is returned to every waiter and nothing is cached, so the
// next access retries.
func (s *Store) GetOrFetch(ctx context.Context, key Key, dest interface{}, fetch FetchFunc) error {
	cacheKey := key.String()

	if raw, found := s.cache.Get(ctx, cacheKey); found {
		if err := json.Unmarshal(raw, dest); err == nil {
			return nil
		}
		// A corrupt entry behaves like a miss.
		_ = s.cache.Delete(ctx, cacheKey)
	}

	raw, err, shared := s.group.Do(cacheKey, func() (interface{}, error) {
		// Another flight may have populated the cache while we queued.
		if cached, found := s.cache.Get(ctx, cacheKey); found {
			return []byte(cached), nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query result: %w", err)
		}
		if err := s.cache.Set(ctx, cacheKey, encoded, s.ttl); err != nil {
			s.logger.Warn("Failed to cache query result",
				zap.String("key", cacheKey),
				zap.Error(err))
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}
	if shared {
		s.logger.Debug("Query fetch deduplicated", zap.String("key", cacheKey))
	}
	return json.Unmarshal(raw.([]byte), dest)
}

// Peek returns the cached value without fetching on a miss.
func (s *Store) Peek(ctx context.Context, key Key, dest interface{}) bool {
	raw, found := s.cache.Get(ctx, key.String())
	if !found {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Prime stores a value under a key without going through a fetch. Used when a
// mutation response already carries the fresh state.
func (s *Store) Prime(ctx context.Context, key Key, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode query result: %w", err)
	}
	return s.cache.Set(ctx, key.String(), encoded, s.ttl)
}

// Invalidate drops the exact key.
func (s *Store) Invalidate(ctx context.Context, key Key) error {
	s.logger.Debug("Invalidating query", zap.String("key", key.String()))
	return s.cache.Delete(ctx, key.String())
}

// InvalidatePrefix drops every key that starts with the given segments.
// The next read of any dropped key refetches from upstream.
func (s *Store) InvalidatePrefix(ctx context.Context, prefix Key) error {
	pattern := prefix.String() + "*"
	s.logger.Debug("Invalidating query prefix", zap.String("pattern", pattern))
	return s.cache.DeletePattern(ctx, pattern)
}

// InvalidateAll clears the whole store.
func (s *Store) InvalidateAll(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
