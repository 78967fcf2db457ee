package models

import "strings"

// Coordinates is a resolved geographic point.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lon float64 `bson:"lon" json:"lon"`
}

// Address is the normalized postal address used for geocoding.
type Address struct {
	Line  string `bson:"line" json:"line,omitempty"`
	City  string `bson:"city" json:"city,omitempty"`
	State string `bson:"state" json:"state,omitempty"`
	Zip   string `bson:"zip" json:"zip,omitempty"`
}

// IsZero reports whether the address has nothing to geocode.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Line) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Zip) == ""
}

// Key is the cache key for the address.
func (a Address) Key() string {
	parts := []string{a.Line, a.City, a.State, a.Zip}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.Join(strings.Fields(p), " "))
	}
	return strings.Join(parts, "|")
}

// String renders the address the way the geocoding provider expects it.
func (a Address) String() string {
	var parts []string
	for _, p := range []string{a.Line, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	tail := strings.TrimSpace(strings.TrimSpace(a.State) + " " + strings.TrimSpace(a.Zip))
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}
