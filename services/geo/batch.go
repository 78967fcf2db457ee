package geo

import (
	"context"
	"sync"
	"time"

	"shootdispatch/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBatchSize keeps provider bursts small.
const DefaultBatchSize = 5

// BatchOptions controls ResolveBatch pacing. Delay is the minimum spacing
// between request starts.
type BatchOptions struct {
	Size  int
	Delay time.Duration
}

type batchResult struct {
	key    string
	coords *models.Coordinates
	err    error
}

// ResolveBatch resolves addrs in concurrent batches. Each lookup fails on its
// own: the returned map simply lacks the keys that could not be resolved.
// Zero addresses and duplicates are skipped.
func ResolveBatch(ctx context.Context, resolver Resolver, addrs []models.Address, opts BatchOptions, logger *zap.Logger) map[string]models.Coordinates {
	if opts.Size <= 0 {
		opts.Size = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	seen := make(map[string]bool, len(addrs))
	pending := make([]models.Address, 0, len(addrs))
	for _, a := range addrs {
		if a.IsZero() || seen[a.Key()] {
			continue
		}
		seen[a.Key()] = true
		pending = append(pending, a)
	}

	resolved := make(map[string]models.Coordinates, len(pending))
	for start := 0; start < len(pending); start += opts.Size {
		end := start + opts.Size
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		resultsCh := make(chan batchResult, len(batch))
		var wg sync.WaitGroup
		for _, a := range batch {
			if err := limiter.Wait(ctx); err != nil {
				resultsCh <- batchResult{key: a.Key(), err: err}
				continue
			}
			wg.Add(1)
			go func(a models.Address) {
				defer wg.Done()
				coords, err := resolver.Resolve(ctx, a)
				resultsCh <- batchResult{key: a.Key(), coords: coords, err: err}
			}(a)
		}
		wg.Wait()
		close(resultsCh)

		for res := range resultsCh {
			switch {
			case res.err != nil:
				logger.Warn("Geocoding failed", zap.String("key", res.key), zap.Error(res.err))
			case res.coords == nil:
				logger.Debug("Address did not geocode", zap.String("key", res.key))
			default:
				resolved[res.key] = *res.coords
			}
		}
	}
	return resolved
}
