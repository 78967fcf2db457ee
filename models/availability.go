package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SlotStatus is the declared state of an availability slot.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotUnavailable SlotStatus = "unavailable"
	SlotBooked      SlotStatus = "booked"
)

// DateLayout is the calendar date format used across the API.
const DateLayout = "2006-01-02"

// AvailabilitySlot is either a one-off calendar entry (Date set) or a weekly
// rule (DayOfWeek set). StartTime and EndTime are "HH:MM".
type AvailabilitySlot struct {
	ID             string     `bson:"id" json:"id"`
	PhotographerID string     `bson:"photographerId" json:"photographerId"`
	Date           string     `bson:"date,omitempty" json:"date,omitempty"`
	DayOfWeek      string     `bson:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"`
	StartTime      string     `bson:"startTime" json:"startTime"`
	EndTime        string     `bson:"endTime" json:"endTime"`
	Status         SlotStatus `bson:"status" json:"status"`
}

var ErrInvalidClock = errors.New("time must be HH:MM")

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes from midnight to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWeekday accepts full or three-letter English weekday names in any case.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return 0, false
}

// Recurring reports whether the slot is a weekly rule.
func (s AvailabilitySlot) Recurring() bool {
	return s.Date == "" && s.DayOfWeek != ""
}

// AppliesTo reports whether the slot is declared for the given calendar day.
func (s AvailabilitySlot) AppliesTo(day time.Time) bool {
	if s.Date != "" {
		return s.Date == day.Format(DateLayout)
	}
	wd, ok := ParseWeekday(s.DayOfWeek)
	return ok && wd == day.Weekday()
}

// Minutes returns the slot bounds as minutes from midnight.
func (s AvailabilitySlot) Minutes() (start, end int, err error) {
	if start, err = ParseClock(s.StartTime); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(s.EndTime); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Validate enforces the slot invariants.
func (s AvailabilitySlot) Validate() error {
	if s.PhotographerID == "" {
		return errors.New("photographerId is required")
	}
	switch {
	case s.Date != "" && s.DayOfWeek != "":
		return errors.New("only one of date and dayOfWeek may be set")
	case s.Date == "" && s.DayOfWeek == "":
		return errors.New("one of date and dayOfWeek is required")
	case s.Date != "":
		if _, err := time.Parse(DateLayout, s.Date); err != nil {
			return fmt.Errorf("invalid date %q", s.Date)
		}
	default:
		if _, ok := ParseWeekday(s.DayOfWeek); !ok {
			return fmt.Errorf("invalid dayOfWeek %q", s.DayOfWeek)
		}
	}
	start, end, err := s.Minutes()
	if err != nil {
		return err
	}
	if start >= end {
		return errors.New("startTime must be before endTime")
	}
	switch s.Status {
	case SlotAvailable, SlotUnavailable, SlotBooked:
	default:
		return fmt.Errorf("invalid status %q", s.Status)
	}
	return nil
}
