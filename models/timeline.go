package models

// BucketStatus tags one hour of a photographer's day.
type BucketStatus string

const (
	BucketAvailable   BucketStatus = "available"
	BucketBooked      BucketStatus = "booked"
	BucketPast        BucketStatus = "past"
	BucketUnavailable BucketStatus = "unavailable"
)

// TimelineShoot is the shoot summary attached to a booked bucket.
type TimelineShoot struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Client  string `json:"client"`
	Time    string `json:"time"`
}

// TimelineSlot is a derived one-hour bucket. It is never persisted.
type TimelineSlot struct {
	Start  string         `json:"start"`
	End    string         `json:"end"`
	Status BucketStatus   `json:"status"`
	Shoot  *TimelineShoot `json:"shoot,omitempty"`
}

// NextAvailability is the earliest declared availability found by a forward search.
type NextAvailability struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Timeline is one photographer's day.
type Timeline struct {
	PhotographerID    string            `json:"photographerId"`
	Date              string            `json:"date"`
	Buckets           []TimelineSlot    `json:"buckets"`
	FullyBooked       bool              `json:"fullyBooked"`
	NextAvailable     *NextAvailability `json:"nextAvailable,omitempty"`
	AvailabilityError string            `json:"availabilityError,omitempty"`
}

// WindowAvailability is a photographer's availability for a requested (date, time).
type WindowAvailability struct {
	IsAvailable        bool     `json:"isAvailable"`
	NextAvailableTimes []string `json:"nextAvailableTimes"`
}

// CandidateRanking decorates a photographer for one booking request.
// DistanceMiles is nil when either end could not be geocoded.
type CandidateRanking struct {
	Photographer       Photographer `json:"photographer"`
	DistanceMiles      *float64     `json:"distanceMiles,omitempty"`
	IsAvailable        bool         `json:"isAvailable"`
	NextAvailableTimes []string     `json:"nextAvailableTimes"`
}
