// README: Primary pricing source backed by the Google Maps route service.
package pricing

import (
	"context"
	"fmt"
	"time"

	"medride/internal/geo"
	"medride/internal/types"
)

// RouteEstimator is the slice of the maps client the primary source needs.
type RouteEstimator interface {
	DrivingDistance(ctx context.Context, origin, destination types.Point) (float64, time.Duration, error)
}

// PrimarySource prices trips from live routing data. It applies the same
// coordinate validation and rate card as the backup calculator; only the
// distance comes from the routing API instead of the haversine estimate.
type PrimarySource struct {
	routes RouteEstimator
	calc   *BackupCalculator
}

func NewPrimarySource(routes RouteEstimator, rates RateCard) *PrimarySource {
	return &PrimarySource{routes: routes, calc: NewBackupCalculator(rates)}
}

func (p *PrimarySource) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	if res := geo.ValidateUSCoordinates(req.Pickup); !res.Valid {
		return Quote{}, fmt.Errorf("%w: Pickup location invalid: %s", ErrUnpriceable, res.Err)
	}
	if res := geo.ValidateUSCoordinates(req.Dropoff); !res.Valid {
		return Quote{}, fmt.Errorf("%w: Dropoff location invalid: %s", ErrUnpriceable, res.Err)
	}

	miles, _, err := p.routes.DrivingDistance(ctx, req.Pickup, req.Dropoff)
	if err != nil {
		return Quote{}, fmt.Errorf("primary route lookup: %w", err)
	}
	// A routed distance can still be nonsense if the API matched the wrong
	// continent; hold it to the same plausibility band as the backup path.
	if !geo.PlausibleMiles(miles) {
		return Quote{}, fmt.Errorf("%w: Calculated distance outside reasonable limits", ErrUnpriceable)
	}

	q, err := p.calc.quoteForDistance(req, miles)
	if err != nil {
		return Quote{}, err
	}
	q.Source = "primary"
	return q, nil
}
