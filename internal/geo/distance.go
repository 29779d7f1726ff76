// Package geo computes great-circle distances between coordinates.
package geo

import (
	"math"

	"github.com/MarcosHerrera95/buscapro/pkg/utils"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in
// kilometers, rounded to one decimal. ok is false when any input is
// non-finite; the function never panics.
func DistanceKm(lat1, lon1, lat2, lon2 float64) (float64, bool) {
	for _, v := range [4]float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
	}

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return utils.Round1(earthRadiusKm * c), true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
