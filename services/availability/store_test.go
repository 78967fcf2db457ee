package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shootdispatch/models"
)

type fakeSlots struct {
	slots  map[string][]models.AvailabilitySlot
	failed map[string]bool
}

func (f *fakeSlots) ListByPhotographer(_ context.Context, id string) ([]models.AvailabilitySlot, error) {
	if f.failed[id] {
		return nil, errors.New("upstream 500")
	}
	return f.slots[id], nil
}

type fakeShoots struct {
	shoots []models.Shoot
	err    error
}

func (f *fakeShoots) ListOverview(context.Context) ([]models.Shoot, error) {
	return f.shoots, f.err
}

func TestStore_LoadDegradesOnSlotFailure(t *testing.T) {
	store := NewStore(
		&fakeSlots{failed: map[string]bool{"p1": true}},
		&fakeShoots{shoots: []models.Shoot{shootAt("s1", "p1", monday(11, 0))}},
		nil,
	)

	snap, err := store.Load(context.Background(), "p1")
	require.NoError(t, err)
	assert.ErrorIs(t, snap.SlotsErr, ErrAvailabilityFetchFailed)
	assert.Empty(t, snap.Slots)
	assert.Len(t, snap.Booked(), 1)

	tl := DayTimeline(snap, monday(0, 0), monday(0, 0))
	assert.True(t, tl.FullyBooked)
	assert.Equal(t, ErrAvailabilityFetchFailed.Error(), tl.AvailabilityError)
	assert.Equal(t, models.BucketBooked, statuses(tl)["11:00"])
}

func TestStore_LoadFailsOnShootFailure(t *testing.T) {
	store := NewStore(&fakeSlots{}, &fakeShoots{err: errors.New("timeout")}, nil)

	_, err := store.Load(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrShootsFetchFailed)
}

func TestDayTimeline_FullyBookedSearchesFromNextDay(t *testing.T) {
	snap := &Snapshot{
		PhotographerID: "p1",
		Slots: []models.AvailabilitySlot{
			dated("2025-01-06", "09:00", "10:00", models.SlotAvailable),
			weekly("Thursday", "12:00", "16:00"),
		},
		Shoots: []models.Shoot{shootAt("s1", "p1", monday(9, 0))},
	}

	tl := DayTimeline(snap, monday(0, 0), monday(0, 0))
	require.True(t, tl.FullyBooked)
	require.NotNil(t, tl.NextAvailable)
	assert.Equal(t, "2025-01-09", tl.NextAvailable.Date)
	assert.Equal(t, "12:00", tl.NextAvailable.StartTime)
}

func TestDayTimeline_OpenDayHasNoNextAvailable(t *testing.T) {
	snap := &Snapshot{PhotographerID: "p1", Slots: []models.AvailabilitySlot{weekly("Monday", "09:00", "10:00")}}

	tl := DayTimeline(snap, monday(0, 0), monday(0, 0))
	assert.False(t, tl.FullyBooked)
	assert.Nil(t, tl.NextAvailable)
}

func TestStore_WindowAvailability(t *testing.T) {
	roster := []models.Photographer{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	store := NewStore(
		&fakeSlots{
			slots: map[string][]models.AvailabilitySlot{
				"p1": {weekly("Monday", "09:00", "17:00")},
				"p2": {weekly("Monday", "09:00", "17:00")},
			},
			failed: map[string]bool{"p3": true},
		},
		&fakeShoots{shoots: []models.Shoot{shootAt("s1", "p2", monday(10, 0))}},
		nil,
	)

	got, err := store.WindowAvailability(context.Background(), roster, monday(0, 0), "10:00", monday(0, 0))
	require.NoError(t, err)

	require.Contains(t, got, "p1")
	assert.True(t, got["p1"].IsAvailable)
	require.Contains(t, got, "p2")
	assert.False(t, got["p2"].IsAvailable)
	assert.NotContains(t, got, "p3", "failed fetch falls back to status")
}

func TestStore_WindowAvailabilityShootFailure(t *testing.T) {
	store := NewStore(&fakeSlots{}, &fakeShoots{err: errors.New("down")}, nil)

	got, err := store.WindowAvailability(context.Background(), []models.Photographer{{ID: "p1"}}, monday(0, 0), "10:00", monday(0, 0))
	assert.ErrorIs(t, err, ErrShootsFetchFailed)
	assert.Nil(t, got)
}

func TestStore_NextAvailable(t *testing.T) {
	store := NewStore(&fakeSlots{
		slots:  map[string][]models.AvailabilitySlot{"p1": {weekly("Tuesday", "08:00", "09:00")}},
		failed: map[string]bool{"p2": true},
	}, &fakeShoots{}, nil)

	next, err := store.NextAvailable(context.Background(), "p1", monday(0, 0))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "2025-01-07", next.Date)

	_, err = store.NextAvailable(context.Background(), "p2", monday(0, 0))
	assert.ErrorIs(t, err, ErrAvailabilityFetchFailed)
}
