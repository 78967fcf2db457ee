package availability

import (
	"time"

	"shootdispatch/models"
)

// The operating day is split into fixed one-hour buckets. Slot boundaries
// finer than an hour are not resolved separately.
const (
	DayStartHour = 7
	DayEndHour   = 19
)

// TimelineInput is everything BuildTimeline needs for one photographer-day.
// Date carries the business location; Now decides which buckets are past.
type TimelineInput struct {
	PhotographerID string
	Date           time.Time
	Slots          []models.AvailabilitySlot
	Shoots         []models.Shoot
	Now            time.Time
}

type hourRange struct {
	start, end int
}

// BuildTimeline projects slots and booked shoots onto the 07:00-19:00 buckets.
// Precedence: past > booked > available > unavailable.
func BuildTimeline(in TimelineInput) models.Timeline {
	day := startOfDay(in.Date)
	ranges := availableHours(in.Slots, day)
	booked := bookedHours(in.Shoots, in.PhotographerID, day)

	buckets := make([]models.TimelineSlot, 0, DayEndHour-DayStartHour)
	fullyBooked := true
	for h := DayStartHour; h < DayEndHour; h++ {
		bucketEnd := time.Date(day.Year(), day.Month(), day.Day(), h+1, 0, 0, 0, day.Location())

		bucket := models.TimelineSlot{
			Start:  models.FormatClock(h * 60),
			End:    models.FormatClock((h + 1) * 60),
			Status: models.BucketUnavailable,
		}
		shoot, isBooked := booked[h]
		if isBooked {
			bucket.Shoot = shoot
		}

		switch {
		case bucketEnd.Before(in.Now):
			bucket.Status = models.BucketPast
		case isBooked:
			bucket.Status = models.BucketBooked
		case covers(ranges, h):
			bucket.Status = models.BucketAvailable
			fullyBooked = false
		}
		buckets = append(buckets, bucket)
	}

	return models.Timeline{
		PhotographerID: in.PhotographerID,
		Date:           day.Format(models.DateLayout),
		Buckets:        buckets,
		FullyBooked:    fullyBooked,
	}
}

// AvailableStarts lists the start labels of the available buckets in order.
func AvailableStarts(t models.Timeline) []string {
	starts := []string{}
	for _, b := range t.Buckets {
		if b.Status == models.BucketAvailable {
			starts = append(starts, b.Start)
		}
	}
	return starts
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// availableHours converts the day's available slots to whole-hour ranges:
// start hours round down and end hours round up.
func availableHours(slots []models.AvailabilitySlot, day time.Time) []hourRange {
	var ranges []hourRange
	for _, s := range slots {
		if s.Status != models.SlotAvailable || !s.AppliesTo(day) {
			continue
		}
		start, end, err := s.Minutes()
		if err != nil || start >= end {
			continue
		}
		ranges = append(ranges, hourRange{start: start / 60, end: (end + 59) / 60})
	}
	return ranges
}

func covers(ranges []hourRange, hour int) bool {
	for _, r := range ranges {
		if r.start <= hour && hour < r.end {
			return true
		}
	}
	return false
}

func bookedHours(shoots []models.Shoot, photographerID string, day time.Time) map[int]*models.TimelineShoot {
	booked := make(map[int]*models.TimelineShoot)
	for _, s := range shoots {
		if s.StartTime == nil || !s.IsAssigned() {
			continue
		}
		if photographerID != "" && s.PhotographerID != photographerID {
			continue
		}
		local := s.StartTime.In(day.Location())
		if !sameDay(local, day) {
			continue
		}
		if _, taken := booked[local.Hour()]; taken {
			continue
		}
		booked[local.Hour()] = &models.TimelineShoot{
			ID:      s.ID,
			Address: s.AddressLine,
			Client:  s.ClientName,
			Time:    shootTimeLabel(s, local),
		}
	}
	return booked
}

func shootTimeLabel(s models.Shoot, local time.Time) string {
	if s.TimeLabel != "" {
		return s.TimeLabel
	}
	return local.Format("3:04 PM")
}
