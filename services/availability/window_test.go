package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shootdispatch/models"
)

func TestCheckWindow(t *testing.T) {
	slots := []models.AvailabilitySlot{weekly("Monday", "09:00", "17:00")}
	base := WindowInput{PhotographerID: "p1", Date: monday(0, 0), Slots: slots, Now: monday(0, 0)}

	t.Run("covered and free", func(t *testing.T) {
		in := base
		in.Time = "10:00"
		got, err := CheckWindow(in)
		require.NoError(t, err)
		assert.True(t, got.IsAvailable)
		assert.Len(t, got.NextAvailableTimes, 8)
		assert.Equal(t, "09:00", got.NextAvailableTimes[0])
	})

	t.Run("outside declared slots", func(t *testing.T) {
		in := base
		in.Time = "17:00"
		got, err := CheckWindow(in)
		require.NoError(t, err)
		assert.False(t, got.IsAvailable)
	})

	t.Run("overlapping booked shoot", func(t *testing.T) {
		in := base
		in.Time = "10:00"
		in.Shoots = []models.Shoot{shootAt("s1", "p1", monday(10, 30))}
		got, err := CheckWindow(in)
		require.NoError(t, err)
		assert.False(t, got.IsAvailable)
	})

	t.Run("adjacent shoot does not overlap", func(t *testing.T) {
		in := base
		in.Time = "10:00"
		in.Shoots = []models.Shoot{shootAt("s1", "p1", monday(11, 0))}
		got, err := CheckWindow(in)
		require.NoError(t, err)
		assert.True(t, got.IsAvailable)
		assert.NotContains(t, got.NextAvailableTimes, "11:00")
	})

	t.Run("another photographer's shoot is ignored", func(t *testing.T) {
		in := base
		in.Time = "10:00"
		in.Shoots = []models.Shoot{shootAt("s1", "p2", monday(10, 0))}
		got, err := CheckWindow(in)
		require.NoError(t, err)
		assert.True(t, got.IsAvailable)
	})

	t.Run("past buckets are not offered", func(t *testing.T) {
		in := base
		in.Time = "15:00"
		in.Now = monday(13, 10)
		got, err := CheckWindow(in)
		require.NoError(t, err)
		assert.Equal(t, []string{"13:00", "14:00", "15:00", "16:00"}, got.NextAvailableTimes)
	})

	t.Run("malformed time", func(t *testing.T) {
		in := base
		in.Time = "ten"
		_, err := CheckWindow(in)
		assert.ErrorIs(t, err, models.ErrInvalidClock)
	})
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-01-06", eastern)
	require.NoError(t, err)
	assert.Equal(t, monday(0, 0), d)

	_, err = ParseDay("01/06/2025", eastern)
	assert.Error(t, err)
}
