package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shootdispatch/models"
)

// SlotSource lists a photographer's declared availability.
type SlotSource interface {
	ListByPhotographer(ctx context.Context, photographerID string) ([]models.AvailabilitySlot, error)
}

// ShootSource lists the shoot overview (assigned and unassigned).
type ShootSource interface {
	ListOverview(ctx context.Context) ([]models.Shoot, error)
}

// DefaultConcurrency caps per-photographer slot fetches.
const DefaultConcurrency = 5

// Store assembles availability from its two collaborators.
type Store struct {
	Slots       SlotSource
	Shoots      ShootSource
	Logger      *zap.Logger
	Concurrency int
}

func NewStore(slots SlotSource, shoots ShootSource, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{Slots: slots, Shoots: shoots, Logger: logger, Concurrency: DefaultConcurrency}
}

// Snapshot is what was loaded for one photographer. A failed slot fetch leaves
// SlotsErr set and Slots empty.
type Snapshot struct {
	PhotographerID string
	Slots          []models.AvailabilitySlot
	Shoots         []models.Shoot
	SlotsErr       error
}

// Booked returns the shoots booked on the snapshot's photographer.
func (s *Snapshot) Booked() []models.Shoot {
	return models.BookedFor(s.Shoots, s.PhotographerID)
}

// Load fetches slots and shoots concurrently. Slot failures degrade the
// snapshot; a shoot failure is returned because booked hours would be unknown.
func (s *Store) Load(ctx context.Context, photographerID string) (*Snapshot, error) {
	snap := &Snapshot{PhotographerID: photographerID}

	var g errgroup.Group
	g.Go(func() error {
		slots, err := s.Slots.ListByPhotographer(ctx, photographerID)
		if err != nil {
			s.Logger.Warn("Availability fetch failed",
				zap.String("photographerId", photographerID), zap.Error(err))
			snap.SlotsErr = fmt.Errorf("%w: %v", ErrAvailabilityFetchFailed, err)
			return nil
		}
		snap.Slots = slots
		return nil
	})
	g.Go(func() error {
		shoots, err := s.Shoots.ListOverview(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrShootsFetchFailed, err)
		}
		snap.Shoots = shoots
		return nil
	})
	if err := g.Wait(); err != nil {
		s.Logger.Error("Shoot fetch failed", zap.String("photographerId", photographerID), zap.Error(err))
		return nil, err
	}
	return snap, nil
}

// DayTimeline builds a photographer's timeline for day from a snapshot. When
// the day is fully booked the search for the next opening starts the day after.
func DayTimeline(snap *Snapshot, day, now time.Time) models.Timeline {
	timeline := BuildTimeline(TimelineInput{
		PhotographerID: snap.PhotographerID,
		Date:           day,
		Slots:          snap.Slots,
		Shoots:         snap.Booked(),
		Now:            now,
	})
	if snap.SlotsErr != nil {
		timeline.AvailabilityError = ErrAvailabilityFetchFailed.Error()
	}
	if timeline.FullyBooked {
		timeline.NextAvailable = FindNextAvailable(snap.Slots, startOfDay(day).AddDate(0, 0, 1))
	}
	return timeline
}

// Timeline loads and builds one photographer-day.
func (s *Store) Timeline(ctx context.Context, photographerID string, day, now time.Time) (models.Timeline, error) {
	snap, err := s.Load(ctx, photographerID)
	if err != nil {
		return models.Timeline{}, err
	}
	return DayTimeline(snap, day, now), nil
}

// NextAvailable loads a photographer's slots and searches forward from from.
func (s *Store) NextAvailable(ctx context.Context, photographerID string, from time.Time) (*models.NextAvailability, error) {
	slots, err := s.Slots.ListByPhotographer(ctx, photographerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityFetchFailed, err)
	}
	return FindNextAvailable(slots, from), nil
}

// WindowAvailability checks every photographer against one requested window.
// Photographers whose slots could not be loaded are left out of the map so
// callers fall back to status. A shoot fetch failure fails the whole call.
func (s *Store) WindowAvailability(ctx context.Context, roster []models.Photographer, day time.Time, clock string, now time.Time) (map[string]models.WindowAvailability, error) {
	if _, err := models.ParseClock(clock); err != nil {
		return nil, err
	}
	shoots, err := s.Shoots.ListOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShootsFetchFailed, err)
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu     sync.Mutex
		result = make(map[string]models.WindowAvailability, len(roster))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, p := range roster {
		p := p
		g.Go(func() error {
			slots, err := s.Slots.ListByPhotographer(gctx, p.ID)
			if err != nil {
				s.Logger.Warn("Skipping availability for photographer",
					zap.String("photographerId", p.ID), zap.Error(err))
				return nil
			}
			window, err := CheckWindow(WindowInput{
				PhotographerID: p.ID,
				Date:           day,
				Time:           clock,
				Slots:          slots,
				Shoots:         models.BookedFor(shoots, p.ID),
				Now:            now,
			})
			if err != nil {
				return err
			}
			mu.Lock()
			result[p.ID] = window
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
