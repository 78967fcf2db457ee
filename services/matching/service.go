package matching

import (
	"context"
	"math"

	"go.uber.org/zap"

	"shootdispatch/models"
	"shootdispatch/services/geo"
)

// Service decorates a roster with distances from a booking location.
type Service struct {
	Resolver geo.Resolver
	Batch    geo.BatchOptions
	Logger   *zap.Logger
}

func NewService(resolver geo.Resolver, batch geo.BatchOptions, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Resolver: resolver, Batch: batch, Logger: logger}
}

// RankRequest carries everything one ranking pass needs.
type RankRequest struct {
	Origin       *models.Coordinates
	Roster       []models.Photographer
	Availability map[string]models.WindowAvailability
	Options      models.RankOptions
}

// ResolveOrigin geocodes the booking address. Any failure yields nil, meaning
// every distance is unknown.
func (s *Service) ResolveOrigin(ctx context.Context, addr models.Address) *models.Coordinates {
	if addr.IsZero() {
		return nil
	}
	coords, err := s.Resolver.Resolve(ctx, addr)
	if err != nil {
		s.Logger.Warn("Booking address could not be geocoded", zap.String("address", addr.String()), zap.Error(err))
		return nil
	}
	return coords
}

// Decorate attaches a distance to every photographer whose home address
// resolves. Geocoding failures are isolated per photographer.
func (s *Service) Decorate(ctx context.Context, origin *models.Coordinates, roster []models.Photographer) []models.CandidateRanking {
	candidates := make([]models.CandidateRanking, len(roster))
	for i, p := range roster {
		candidates[i] = models.CandidateRanking{Photographer: p, NextAvailableTimes: []string{}}
	}
	if origin == nil || len(roster) == 0 {
		return candidates
	}

	addrs := make([]models.Address, 0, len(roster))
	for _, p := range roster {
		addrs = append(addrs, p.Address)
	}
	resolved := geo.ResolveBatch(ctx, s.Resolver, addrs, s.Batch, s.Logger)

	for i, p := range roster {
		if p.Address.IsZero() {
			continue
		}
		coords, ok := resolved[p.Address.Key()]
		if !ok {
			continue
		}
		d := geo.Distance(*origin, coords)
		if math.IsNaN(d) {
			continue
		}
		candidates[i].DistanceMiles = &d
	}
	return candidates
}

// RankCandidates decorates then ranks.
func (s *Service) RankCandidates(ctx context.Context, req RankRequest) []models.CandidateRanking {
	return Rank(s.Decorate(ctx, req.Origin, req.Roster), req.Options, req.Availability)
}
