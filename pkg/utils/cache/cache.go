package cache

import (
	"context"
	"errors"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	// GetWith behaves like Get but uses load on a miss.
	GetWith(ctx context.Context, key K, load func(ctx context.Context) (*V, error)) (*V, error)
	Invalidate(ctx context.Context, key K)
	Len() int
}
