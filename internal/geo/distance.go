// README: Validated driving-distance estimation between US coordinates.
package geo

import (
	"math"

	"medride/internal/types"
)

const earthRadiusMiles = 3958.8

// roadFactor scales great-circle distance up to an approximate driving
// distance; ground transport rarely travels in a straight line.
const roadFactor = 1.15

// Plausibility band for ground medical transport. The upper bound admits a
// legitimate cross-country transfer (NYC to LA is roughly 2,800 driving
// miles) while ruling out trans-territory pairs such as mainland to Hawaii.
const (
	minPlausibleMiles = 0.1
	maxPlausibleMiles = 3500.0
)

// DistanceResult reports a validated distance or a caller-displayable error.
type DistanceResult struct {
	Success bool
	Miles   float64
	Err     string
}

// CalculateValidatedDistance validates both endpoints, then returns the
// estimated driving distance in miles. Errors identify which endpoint failed
// so the booking UI can point the user at the bad field.
func CalculateValidatedDistance(pickup, dropoff types.Point) DistanceResult {
	if res := ValidateUSCoordinates(pickup); !res.Valid {
		return DistanceResult{Err: "Pickup location invalid: " + res.Err}
	}
	if res := ValidateUSCoordinates(dropoff); !res.Valid {
		return DistanceResult{Err: "Dropoff location invalid: " + res.Err}
	}

	miles := haversineMiles(pickup, dropoff) * roadFactor
	if !PlausibleMiles(miles) {
		return DistanceResult{Err: "Calculated distance outside reasonable limits"}
	}
	return DistanceResult{Success: true, Miles: miles}
}

// PlausibleMiles reports whether a distance could describe a real ground
// medical transport trip, whichever source produced it.
func PlausibleMiles(miles float64) bool {
	return miles >= minPlausibleMiles && miles <= maxPlausibleMiles
}

// haversineMiles returns the great-circle distance in miles between two
// points specified in decimal degrees.
func haversineMiles(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
