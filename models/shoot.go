package models

import "time"

// Shoot is the assignment-relevant view of a booked shoot.
// An empty PhotographerID means the shoot is unassigned.
type Shoot struct {
	ID             string     `bson:"id" json:"id"`
	AddressLine    string     `bson:"addressLine" json:"addressLine"`
	CityStateZip   string     `bson:"cityStateZip" json:"cityStateZip"`
	ClientName     string     `bson:"clientName" json:"clientName"`
	PhotographerID string     `bson:"photographerId,omitempty" json:"photographerId,omitempty"`
	StartTime      *time.Time `bson:"startTime,omitempty" json:"startTime,omitempty"`
	DayLabel       string     `bson:"dayLabel,omitempty" json:"dayLabel,omitempty"`
	TimeLabel      string     `bson:"timeLabel,omitempty" json:"timeLabel,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// IsAssigned reports whether a photographer is booked on the shoot.
func (s Shoot) IsAssigned() bool {
	return s.PhotographerID != ""
}

// Unassigned filters shoots eligible for matching.
func Unassigned(shoots []Shoot) []Shoot {
	out := make([]Shoot, 0, len(shoots))
	for _, s := range shoots {
		if !s.IsAssigned() {
			out = append(out, s)
		}
	}
	return out
}

// BookedFor filters the shoots booked on one photographer.
func BookedFor(shoots []Shoot, photographerID string) []Shoot {
	var out []Shoot
	for _, s := range shoots {
		if s.PhotographerID == photographerID {
			out = append(out, s)
		}
	}
	return out
}
