package models

import "time"

// PhotographerStatus is the roster status shown on the dispatch board.
type PhotographerStatus string

const (
	StatusFree    PhotographerStatus = "free"
	StatusBusy    PhotographerStatus = "busy"
	StatusEditing PhotographerStatus = "editing"
	StatusOffline PhotographerStatus = "offline"
)

// Valid reports whether s is a known status.
func (s PhotographerStatus) Valid() bool {
	switch s {
	case StatusFree, StatusBusy, StatusEditing, StatusOffline:
		return true
	}
	return false
}

// Photographer is a roster entry. The core reads it and never mutates it.
type Photographer struct {
	ID        string             `bson:"id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Avatar    string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Address   Address            `bson:"address" json:"address"`
	Status    PhotographerStatus `bson:"status" json:"status"`
	LoadToday int                `bson:"loadToday" json:"loadToday"`
	Region    string             `bson:"region,omitempty" json:"region,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt,omitzero"`
}
