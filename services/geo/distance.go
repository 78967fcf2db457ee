package geo

import (
	"math"

	"shootdispatch/models"
)

// EarthRadiusMiles is the mean radius used by the spherical approximation.
const EarthRadiusMiles = 3958.8

// Distance returns the great-circle distance in miles between a and b.
// NaN inputs propagate to a NaN result.
func Distance(a, b models.Coordinates) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
