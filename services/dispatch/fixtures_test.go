package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shootdispatch/models"
	"shootdispatch/services/assignment"
	"shootdispatch/services/availability"
	"shootdispatch/services/geo"
	"shootdispatch/services/matching"
)

var eastern = time.FixedZone("EST", -5*60*60)

// memBackend stands in for every persistence collaborator.
type memBackend struct {
	mu            sync.Mutex
	photographers []models.Photographer
	slots         map[string][]models.AvailabilitySlot
	shoots        map[string]models.Shoot
	order         []string
	writes        int

	failSlots map[string]bool
	shootsErr error
	rosterErr error
	assignErr error
	block     map[string]chan struct{}
	started   chan string
}

func (b *memBackend) ListPhotographers(context.Context) ([]models.Photographer, error) {
	if b.rosterErr != nil {
		return nil, b.rosterErr
	}
	return append([]models.Photographer{}, b.photographers...), nil
}

func (b *memBackend) GetPhotographer(_ context.Context, id string) (*models.Photographer, error) {
	for _, p := range b.photographers {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (b *memBackend) ListByPhotographer(_ context.Context, id string) ([]models.AvailabilitySlot, error) {
	if ch, ok := b.block[id]; ok {
		b.started <- id
		<-ch
	}
	if b.failSlots[id] {
		return nil, errors.New("availability endpoint 502")
	}
	return b.slots[id], nil
}

func (b *memBackend) ListOverview(context.Context) ([]models.Shoot, error) {
	if b.shootsErr != nil {
		return nil, b.shootsErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Shoot, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.shoots[id])
	}
	return out, nil
}

func (b *memBackend) GetByID(_ context.Context, id string) (*models.Shoot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.shoots[id]
	if !ok {
		return nil, fmt.Errorf("shoot %s: %w", id, models.ErrNotFound)
	}
	return &s, nil
}

func (b *memBackend) AssignPhotographer(_ context.Context, id, photographerID string) (*models.Shoot, error) {
	if b.assignErr != nil {
		return nil, b.assignErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.shoots[id]
	s.PhotographerID = photographerID
	b.shoots[id] = s
	b.writes++
	return &s, nil
}

func (b *memBackend) addShoot(s models.Shoot) {
	b.shoots[s.ID] = s
	b.order = append(b.order, s.ID)
}

type lineResolver map[string]models.Coordinates

func (r lineResolver) Resolve(_ context.Context, addr models.Address) (*models.Coordinates, error) {
	c, ok := r[addr.Line]
	if !ok {
		return nil, geo.ErrGeocodeUnavailable
	}
	return &c, nil
}

func at(day, hour int) *time.Time {
	t := time.Date(2025, time.January, day, hour, 0, 0, 0, eastern)
	return &t
}

func weekly(id, day, start, end string) models.AvailabilitySlot {
	return models.AvailabilitySlot{ID: id + day, PhotographerID: id, DayOfWeek: day, StartTime: start, EndTime: end, Status: models.SlotAvailable}
}

// newFixture: Monday 2025-01-06 booking at 10:00 in Austin; "now" is the
// evening before.
func newFixture(t *testing.T) (*DefaultDispatchService, *memBackend, SessionStore) {
	t.Helper()
	b := &memBackend{
		photographers: []models.Photographer{
			{ID: "p1", Name: "Ada", Status: models.StatusFree, Address: models.Address{Line: "near", City: "Austin", State: "TX"}},
			{ID: "p2", Name: "Ben", Status: models.StatusFree, Address: models.Address{Line: "far", City: "Round Rock", State: "TX"}},
			{ID: "p3", Name: "Cy", Status: models.StatusBusy, Address: models.Address{Line: "nowhere", City: "Austin", State: "TX"}},
		},
		slots: map[string][]models.AvailabilitySlot{
			"p1": {weekly("p1", "Monday", "09:00", "17:00")},
			"p2": {weekly("p2", "Monday", "09:00", "17:00")},
		},
		shoots:  map[string]models.Shoot{},
		started: make(chan string, 4),
	}
	b.addShoot(models.Shoot{ID: "s1", PhotographerID: "p2", AddressLine: "5 Elm", ClientName: "Keller", StartTime: at(6, 10)})
	b.addShoot(models.Shoot{ID: "s2", AddressLine: "7 Pine", ClientName: "Nguyen", StartTime: at(6, 13)})
	b.addShoot(models.Shoot{ID: "s3", AddressLine: "9 Birch", ClientName: "Ortiz", StartTime: at(7, 9)})

	resolver := geo.NewCachedResolver(lineResolver{
		"1 Congress Ave": {Lat: 30.2672, Lon: -97.7431},
		"near":           {Lat: 30.28, Lon: -97.74},
		"far":            {Lat: 30.51, Lon: -97.68},
	}, geo.NewMemoryCache(32, time.Hour), nil)

	sessions := NewMemorySessionStore(16, time.Minute)
	svc := NewDispatchService(
		sessions,
		b,
		availability.NewStore(b, b, nil),
		matching.NewService(resolver, geo.BatchOptions{}, nil),
		assignment.NewCoordinator(b, b, nil),
		eastern,
		nil,
	)
	svc.Now = func() time.Time { return time.Date(2025, time.January, 5, 20, 0, 0, 0, eastern) }
	return svc, b, sessions
}

var mondayBooking = models.BookingRequest{
	Address: models.Address{Line: "1 Congress Ave", City: "Austin", State: "TX", Zip: "78701"},
	Date:    "2025-01-06",
	Time:    "10:00",
}

func startSession(t *testing.T, svc *DefaultDispatchService) *SessionView {
	t.Helper()
	view, err := svc.InitiateSession(context.Background(), mondayBooking, models.RankOptions{})
	require.NoError(t, err)
	return view
}

func candidateIDs(list []models.CandidateRanking) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Photographer.ID
	}
	return out
}
