package availability

import (
	"sort"
	"time"

	"shootdispatch/models"
)

// NextAvailableHorizonDays is how far past the start day the search looks.
const NextAvailableHorizonDays = 7

// FindNextAvailable returns the earliest declared available slot on from or
// one of the following seven days, or nil. On each day date-specific slots
// take precedence over weekly rules. Booked shoots are not consulted.
func FindNextAvailable(slots []models.AvailabilitySlot, from time.Time) *models.NextAvailability {
	day := startOfDay(from)
	for offset := 0; offset <= NextAvailableHorizonDays; offset++ {
		d := day.AddDate(0, 0, offset)
		if next := earliestOn(slots, d); next != nil {
			return next
		}
	}
	return nil
}

type timedSlot struct {
	slot       models.AvailabilitySlot
	start, end int
}

func earliestOn(slots []models.AvailabilitySlot, day time.Time) *models.NextAvailability {
	var specific, recurring []timedSlot
	for _, s := range slots {
		if s.Status != models.SlotAvailable || !s.AppliesTo(day) {
			continue
		}
		start, end, err := s.Minutes()
		if err != nil || start >= end {
			continue
		}
		ts := timedSlot{slot: s, start: start, end: end}
		if s.Recurring() {
			recurring = append(recurring, ts)
		} else {
			specific = append(specific, ts)
		}
	}

	candidates := specific
	if len(candidates) == 0 {
		candidates = recurring
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].start < candidates[j].start
	})
	first := candidates[0]
	return &models.NextAvailability{
		Date:      day.Format(models.DateLayout),
		StartTime: models.FormatClock(first.start),
		EndTime:   models.FormatClock(first.end),
	}
}
