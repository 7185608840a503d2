package domain

import (
	"context"
	"time"
)

// Cache defines the interface for caching read-side query results
// (alert lists, cohort stats) between engine runs. Supports two-phase
// caching: local LRU (Community) + Redis (Pro).
type Cache interface {
	// Get retrieves a value from cache.
	// Returns nil, nil if key not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache.
	Delete(ctx context.Context, key string) error

	// Invalidate removes every cached entry under a prefix. Called after
	// a run commits so readers never see a stale alert set.
	Invalidate(ctx context.Context, prefix string) error

	// IncrementCounter atomically increments a counter and returns the
	// new value. Used to detect overlapping run triggers.
	IncrementCounter(ctx context.Context, key string, window time.Duration) (int64, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// CacheConfig holds configuration for cache initialization.
type CacheConfig struct {
	// Type is the cache type: "memory" or "redis"
	Type string

	// Local LRU cache settings (Community tier)
	LocalMaxSize int
	LocalTTL     int // seconds

	// Redis settings (Pro tier)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Two-phase settings
	EnableTwoPhase bool // If true, check local first, then Redis
}
