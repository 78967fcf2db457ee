package geo

import (
	"context"
	"time"

	"shootdispatch/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ProviderTimeout bounds one shared provider call.
const ProviderTimeout = 10 * time.Second

// CachedResolver puts a Cache in front of a provider Resolver. Concurrent
// lookups of the same address share one provider call. Misses and failures
// are not cached.
type CachedResolver struct {
	Provider Resolver
	Cache    Cache
	Logger   *zap.Logger

	group singleflight.Group
}

func NewCachedResolver(provider Resolver, cache Cache, logger *zap.Logger) *CachedResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedResolver{Provider: provider, Cache: cache, Logger: logger}
}

func (r *CachedResolver) Resolve(ctx context.Context, addr models.Address) (*models.Coordinates, error) {
	if addr.IsZero() {
		return nil, nil
	}
	key := addr.Key()

	c, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("Geocode cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return &c, nil
	}

	// The shared call must not inherit one caller's cancellation; each caller
	// stops waiting on its own context instead.
	ch := r.group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ProviderTimeout)
		defer cancel()
		coords, err := r.Provider.Resolve(callCtx, addr)
		if err != nil || coords == nil {
			return coords, err
		}
		if err := r.Cache.Set(callCtx, key, *coords); err != nil {
			r.Logger.Warn("Geocode cache write failed", zap.String("key", key), zap.Error(err))
		}
		return coords, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		coords, _ := res.Val.(*models.Coordinates)
		return coords, nil
	}
}
