package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when a key is absent or its entry expired.
var ErrMiss = errors.New("cache miss")

// Store is the client-side cache behind the sheet fetcher and the auth
// session layer. It only needs two read paths (get-or-miss with TTL) and
// two eviction paths (single key, prefix sweep).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}
