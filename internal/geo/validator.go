// README: US service-area coordinate validation.
package geo

import (
	"math"

	"medride/internal/types"
)

// ValidationResult reports coordinate validity as a value. Validation never
// panics: the backup pricing path runs precisely because something upstream
// already failed, so it cannot itself be a source of unhandled failures.
type ValidationResult struct {
	Valid bool
	Err   string
}

type region struct {
	name   string
	minLat float64
	maxLat float64
	minLng float64
	maxLng float64
}

// Bounding boxes for every US service territory. Coarse on purpose: exact
// shoreline geometry is the geocoder's job, these only keep obviously
// foreign or garbage points out of fare math.
var usRegions = []region{
	{"continental US", 24.396308, 49.384358, -124.848974, -66.885444},
	{"Alaska", 51.214183, 71.365162, -179.148909, -129.9795},
	{"Hawaii", 18.910361, 22.236428, -160.236328, -154.806773},
	{"Puerto Rico", 17.88328, 18.515683, -67.945404, -65.220703},
	{"US Virgin Islands", 17.673976, 18.41295, -65.085452, -64.564907},
	{"Guam", 13.234189, 13.654383, 144.618068, 144.956712},
	{"Northern Mariana Islands", 14.110472, 20.553802, 144.886331, 146.064818},
	{"American Samoa", -14.548699, -14.157381, -170.841806, -169.416077},
}

// sentinels are degenerate pairs produced by upstream geocoding failures:
// zeroed structs, placeholder (1,1) values, and pole clamps. They are checked
// before any region test so a failed geocode can never price as a real trip.
var sentinels = [4]types.Point{
	{Lat: 0, Lng: 0},
	{Lat: 1, Lng: 1},
	{Lat: 90, Lng: 0},
	{Lat: -90, Lng: 0},
}

// ValidateUSCoordinates checks that p is a plausible pickup or dropoff point
// inside a US service territory.
func ValidateUSCoordinates(p types.Point) ValidationResult {
	if !isFinite(p.Lat) || !isFinite(p.Lng) {
		return invalid("Invalid coordinates detected")
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return invalid("Invalid coordinates detected")
	}
	for _, s := range sentinels {
		if p.Lat == s.Lat && p.Lng == s.Lng {
			return invalid("Invalid coordinates detected")
		}
	}
	for _, r := range usRegions {
		if p.Lat >= r.minLat && p.Lat <= r.maxLat && p.Lng >= r.minLng && p.Lng <= r.maxLng {
			return ValidationResult{Valid: true}
		}
	}
	return invalid("Location outside US service area")
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Err: msg}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
