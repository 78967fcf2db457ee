package models

import "time"

// BookingRequest is the (address, date, time) tuple produced by the booking form.
type BookingRequest struct {
	Address Address `json:"address"`
	Date    string  `json:"date" binding:"required"`
	Time    string  `json:"time" binding:"required"`
}

// RankOptions are the operator-chosen list criteria.
type RankOptions struct {
	Filter     string `json:"filter,omitempty"`
	Search     string `json:"search,omitempty"`
	SortBy     string `json:"sortBy,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// DispatchSession is one operator's assignment view, cached with a TTL.
// Revision changes whenever a photographer view is opened or a shoot is
// assigned; a view fetched under an older revision must not overwrite newer
// state. Re-ranking leaves it alone.
type DispatchSession struct {
	ID                     string                        `json:"id"`
	Booking                BookingRequest                `json:"booking"`
	Origin                 *Coordinates                  `json:"origin,omitempty"`
	Options                RankOptions                   `json:"options"`
	Candidates             []CandidateRanking            `json:"candidates"`
	Availability           map[string]WindowAvailability `json:"availability"`
	AvailabilityLoading    bool                          `json:"availabilityLoading"`
	SelectedPhotographerID string                        `json:"selectedPhotographerId,omitempty"`
	SelectedDate           string                        `json:"selectedDate,omitempty"`
	Revision               int64                         `json:"revision"`
	CreatedAt              time.Time                     `json:"createdAt"`
	UpdatedAt              time.Time                     `json:"updatedAt"`
}
