package loadercache

import (
	"context"
	"sync"
	"time"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/utils/cache"
)

type (
	Option[K comparable, V any] func(*config[K, V])
	item[T any]                 struct {
		data    T
		expires time.Time
	}
	LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (*V, error)
	config[K comparable, V any]     struct {
		expiration time.Duration
		loader     LoaderFunc[K, V]
		now        func() time.Time
		l          *log.Logger
	}
	loaderCache[K comparable, V any] struct {
		mutex  sync.Mutex
		items  map[K]item[*V]
		config *config[K, V]
	}
)

// WithExpiration sets the lifetime of loaded entries. A value <= 0 keeps
// entries until they are invalidated.
func WithExpiration[K comparable, V any](expiration time.Duration) Option[K, V] {
	return func(c *config[K, V]) {
		c.expiration = expiration
	}
}

func WithLoader[K comparable, V any](lf LoaderFunc[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.loader = lf
	}
}

func WithLogger[K comparable, V any](arg *log.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.l = arg
	}
}

func withClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *config[K, V]) {
		c.now = now
	}
}

func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &config[K, V]{
		expiration: 5 * time.Minute,
		now:        time.Now,
		l:          log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return &loaderCache[K, V]{
		items:  make(map[K]item[*V]),
		config: c,
	}
}

// Get returns the cached entry or calls the loader. The lock is held while
// loading so concurrent callers for the same key share one load.
func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	if c.config.loader == nil {
		return c.get(ctx, key, nil)
	}
	return c.get(ctx, key, func(ctx context.Context) (*V, error) {
		return c.config.loader(ctx, key)
	})
}

// GetWith uses load instead of the configured loader on a miss.
func (c *loaderCache[K, V]) GetWith(
	ctx context.Context,
	key K,
	load func(ctx context.Context) (*V, error),
) (*V, error) {
	return c.get(ctx, key, load)
}

func (c *loaderCache[K, V]) get(
	ctx context.Context,
	key K,
	load func(ctx context.Context) (*V, error),
) (*V, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if cacheItem, ok := c.items[key]; ok {
		if cacheItem.expires.IsZero() || !cacheItem.expires.Before(c.config.now()) {
			return cacheItem.data, nil
		}
		delete(c.items, key)
	}
	return c.load(ctx, key, load)
}

func (c *loaderCache[K, V]) load(
	ctx context.Context,
	key K,
	loader func(ctx context.Context) (*V, error),
) (*V, error) {
	if loader == nil {
		return nil, cache.ErrCacheMiss
	}
	v, err := loader(ctx)
	c.config.l.Debug("load", log.Any("key", key))
	if err != nil {
		c.config.l.Debug("error loading entry", log.Any("key", key), log.ErrorField(err))
		return nil, err
	}
	var expires time.Time
	if c.config.expiration > 0 {
		expires = c.config.now().Add(c.config.expiration)
	}
	c.items[key] = item[*V]{data: v, expires: expires}
	return v, nil
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
	c.config.l.Debug("invalidate", log.Any("key", key), log.Int("remain", len(c.items)))
}

func (c *loaderCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}
