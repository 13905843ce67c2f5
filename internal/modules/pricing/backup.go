// README: Deterministic backup fare calculator used when the primary pricing path is down.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"medride/internal/geo"
	"medride/internal/types"
)

// ErrUnpriceable wraps any condition under which a trip cannot be priced:
// bad coordinates, implausible distances, unknown vehicle tiers. The HTTP
// layer surfaces it as "cannot price this trip".
var ErrUnpriceable = errors.New("cannot price this trip")

// BackupCalculator derives a fare purely from ride attributes and a rate
// card. It performs no I/O, so it stays available when the primary mapping
// service is not.
type BackupCalculator struct {
	rates RateCard
}

func NewBackupCalculator(rates RateCard) *BackupCalculator {
	return &BackupCalculator{rates: rates}
}

// Quote computes the backup fare breakdown. The fixed order matters: the
// platform fee applies to the subtotal, tax applies to subtotal plus fee.
func (b *BackupCalculator) Quote(_ context.Context, req QuoteRequest) (Quote, error) {
	if !req.VehicleType.Valid() {
		return Quote{}, fmt.Errorf("%w: unknown vehicle type %q", ErrUnpriceable, req.VehicleType)
	}
	if !req.PickupStairs.Valid() || !req.DropoffStairs.Valid() {
		return Quote{}, fmt.Errorf("%w: unknown stair tier", ErrUnpriceable)
	}

	dist := geo.CalculateValidatedDistance(req.Pickup, req.Dropoff)
	if !dist.Success {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnpriceable, dist.Err)
	}

	return b.quoteForDistance(req, dist.Miles)
}

// quoteForDistance applies the rate card to an already-validated distance.
// The primary source reuses it so both paths price a mile identically.
func (b *BackupCalculator) quoteForDistance(req QuoteRequest, miles float64) (Quote, error) {
	bd := FareBreakdown{
		BaseFare:            b.rates.BaseFares[req.VehicleType],
		DistanceMiles:       miles,
		DistanceCharge:      roundCents(miles * float64(b.rates.PerMileCents)),
		PickupStairsCharge:  b.rates.StairCharges[tierOrNone(req.PickupStairs)],
		DropoffStairsCharge: b.rates.StairCharges[tierOrNone(req.DropoffStairs)],
		RoundTrip:           req.RoundTrip,
	}

	if req.RoundTrip {
		// The vehicle drives the route twice and the stairs are climbed at
		// both ends of both legs. Fixed add-on services are charged once.
		bd.BaseFare *= 2
		bd.DistanceCharge *= 2
		bd.PickupStairsCharge *= 2
		bd.DropoffStairsCharge *= 2
	}

	if req.Services.NeedsRamp {
		bd.RampCharge = b.rates.RampCents
	}
	if req.Services.NeedsCompanion {
		bd.CompanionCharge = b.rates.CompanionCents
	}
	if req.Services.NeedsStairChair {
		bd.StairChairCharge = b.rates.StairChairCents
	}
	if req.Services.NeedsWaitTime {
		bd.WaitTimeCharge = b.rates.WaitTimeCents
	}

	bd.Subtotal = bd.BaseFare + bd.DistanceCharge +
		bd.PickupStairsCharge + bd.DropoffStairsCharge +
		bd.RampCharge + bd.CompanionCharge + bd.StairChairCharge + bd.WaitTimeCharge
	bd.PlatformFee = applyBps(bd.Subtotal, b.rates.PlatformFeeBps)
	bd.Tax = applyBps(bd.Subtotal+bd.PlatformFee, b.rates.TaxBps)
	bd.Total = bd.Subtotal + bd.PlatformFee + bd.Tax

	return Quote{
		EstimatedFare: types.USD(bd.Total),
		Breakdown:     bd,
		Source:        "backup",
	}, nil
}

func tierOrNone(t StairTier) StairTier {
	if t == "" {
		return StairsNone
	}
	return t
}

// applyBps computes v * bps/10000 in cents, rounding half up.
func applyBps(v, bps int64) int64 {
	return (v*bps + 5000) / 10000
}

func roundCents(v float64) int64 {
	return int64(v + 0.5)
}
