package openf1

import (
	"context"
	"time"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
	"github.com/mpapenbr/openf1-analysis/pkg/utils/cache"
	"github.com/mpapenbr/openf1-analysis/pkg/utils/cache/loadercache"
)

type cacheKey struct {
	endpoint string
	query    string
}

// CachedFetcher memoizes the responses of another Fetcher for identical
// requests. Failed requests are not cached. Returned rows are shared
// between callers and must not be modified.
type CachedFetcher struct {
	next  Fetcher
	cache cache.Cache[cacheKey, model.RawRows]
}

func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	cf := &CachedFetcher{next: next}
	cf.cache = loadercache.New(
		loadercache.WithExpiration[cacheKey, model.RawRows](ttl),
		loadercache.WithLogger[cacheKey, model.RawRows](log.Default().Named("openf1.cache")),
	)
	return cf
}

func (cf *CachedFetcher) Fetch(ctx context.Context, endpoint string, params Params) (
	model.RawRows, error,
) {
	if err := ValidateRequest(endpoint, params); err != nil {
		return nil, err
	}
	key := cacheKey{endpoint: endpoint, query: params.Encode()}
	rows, err := cf.cache.GetWith(ctx, key, func(ctx context.Context) (*model.RawRows, error) {
		rows, err := cf.next.Fetch(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		return &rows, nil
	})
	if err != nil {
		return nil, err
	}
	return *rows, nil
}
