package availability

import (
	"fmt"
	"time"

	"shootdispatch/models"
)

// DefaultShootDuration is the busy interval a booked shoot occupies.
const DefaultShootDuration = time.Hour

// WindowInput asks whether one photographer can take a shoot at Date/Time.
type WindowInput struct {
	PhotographerID string
	Date           time.Time
	Time           string
	Duration       time.Duration
	Slots          []models.AvailabilitySlot
	Shoots         []models.Shoot
	Now            time.Time
}

// CheckWindow applies the availability invariant: an available slot must cover
// the requested time on that date or weekday, and no booked shoot may overlap
// the requested window.
func CheckWindow(in WindowInput) (models.WindowAvailability, error) {
	at, err := models.ParseClock(in.Time)
	if err != nil {
		return models.WindowAvailability{}, err
	}
	duration := in.Duration
	if duration <= 0 {
		duration = DefaultShootDuration
	}
	day := startOfDay(in.Date)
	reqStart := time.Date(day.Year(), day.Month(), day.Day(), 0, at, 0, 0, day.Location())
	reqEnd := reqStart.Add(duration)

	covered := false
	for _, s := range in.Slots {
		if s.Status != models.SlotAvailable || !s.AppliesTo(day) {
			continue
		}
		start, end, err := s.Minutes()
		if err != nil {
			continue
		}
		if start <= at && at < end {
			covered = true
			break
		}
	}

	conflict := false
	for _, s := range in.Shoots {
		if s.StartTime == nil || s.PhotographerID != in.PhotographerID {
			continue
		}
		busyStart := s.StartTime.In(day.Location())
		busyEnd := busyStart.Add(DefaultShootDuration)
		if busyStart.Before(reqEnd) && reqStart.Before(busyEnd) {
			conflict = true
			break
		}
	}

	timeline := BuildTimeline(TimelineInput{
		PhotographerID: in.PhotographerID,
		Date:           day,
		Slots:          in.Slots,
		Shoots:         in.Shoots,
		Now:            in.Now,
	})

	return models.WindowAvailability{
		IsAvailable:        covered && !conflict,
		NextAvailableTimes: AvailableStarts(timeline),
	}, nil
}

// ParseDay parses a YYYY-MM-DD date in loc.
func ParseDay(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return d, nil
}
