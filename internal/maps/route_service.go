// README: Google Maps routing client; the primary distance source for pricing.
package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"medride/internal/types"
)

const metersPerMile = 1609.344

// RouteService handles interactions with the Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// DrivingDistance returns the driving distance in miles and the expected
// duration between origin and destination. Any API failure is returned to
// the caller so the pricing service can fall back to the backup calculator.
func (s *RouteService) DrivingDistance(ctx context.Context, origin, destination types.Point) (float64, time.Duration, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        maps.TravelModeDriving,
		Region:      "US",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, 0, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return float64(leg.Distance.Meters) / metersPerMile, leg.Duration, nil
}
