// README: Fare rate card, quote request, and auditable breakdown definitions.
package pricing

import "medride/internal/types"

// VehicleType selects the base fare tier.
type VehicleType string

const (
	VehicleStandard   VehicleType = "standard"
	VehicleWheelchair VehicleType = "wheelchair"
	VehicleStretcher  VehicleType = "stretcher"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleStandard, VehicleWheelchair, VehicleStretcher:
		return true
	}
	return false
}

// StairTier describes stairs at one end of the trip. Pickup and dropoff are
// tiered independently and both surcharges can apply on the same trip.
type StairTier string

const (
	StairsNone       StairTier = "none"
	StairsFew        StairTier = "1-3"
	StairsSome       StairTier = "4-10"
	StairsMany       StairTier = "11+"
	StairsFullFlight StairTier = "full_flight"
)

func (s StairTier) Valid() bool {
	switch s {
	case StairsNone, StairsFew, StairsSome, StairsMany, StairsFullFlight, "":
		return true
	}
	return false
}

// AdditionalServices are independent add-on flags; any subset may be set.
type AdditionalServices struct {
	NeedsRamp       bool `json:"needs_ramp"`
	NeedsCompanion  bool `json:"needs_companion"`
	NeedsStairChair bool `json:"needs_stair_chair"`
	NeedsWaitTime   bool `json:"needs_wait_time"`
}

// QuoteRequest carries every ride attribute the fare formula depends on.
type QuoteRequest struct {
	Pickup        types.Point
	Dropoff       types.Point
	VehicleType   VehicleType
	Services      AdditionalServices
	PickupStairs  StairTier
	DropoffStairs StairTier
	RoundTrip     bool
}

// FareBreakdown lists every line item, in cents, so a quote is auditable and
// the UI can render the same preview the fare total was computed from.
// Recomposing subtotal -> +fee -> +tax reproduces Total exactly.
type FareBreakdown struct {
	BaseFare            int64   `json:"base_fare"`
	DistanceMiles       float64 `json:"distance_miles"`
	DistanceCharge      int64   `json:"distance_charge"`
	PickupStairsCharge  int64   `json:"pickup_stairs_charge"`
	DropoffStairsCharge int64   `json:"dropoff_stairs_charge"`
	RampCharge          int64   `json:"ramp_charge"`
	CompanionCharge     int64   `json:"companion_charge"`
	StairChairCharge    int64   `json:"stair_chair_charge"`
	WaitTimeCharge      int64   `json:"wait_time_charge"`
	RoundTrip           bool    `json:"round_trip"`
	Subtotal            int64   `json:"subtotal"`
	PlatformFee         int64   `json:"platform_fee"`
	Tax                 int64   `json:"tax"`
	Total               int64   `json:"total"`
}

// Quote is the pricing service's answer, whichever source produced it.
type Quote struct {
	EstimatedFare types.Money   `json:"estimated_fare"`
	Breakdown     FareBreakdown `json:"breakdown"`
	Source        string        `json:"source"`
}

// RateCard holds every fixed dollar amount and percentage the fare formula
// uses. All monetary fields are cents; percentages are basis points.
type RateCard struct {
	BaseFares       map[VehicleType]int64
	PerMileCents    int64
	StairCharges    map[StairTier]int64
	RampCents       int64
	CompanionCents  int64
	StairChairCents int64
	WaitTimeCents   int64
	PlatformFeeBps  int64
	TaxBps          int64
}

// DefaultRateCard is the compiled-in card. It keeps the backup path working
// with no database reachable, which is exactly when it is needed most.
func DefaultRateCard() RateCard {
	return RateCard{
		BaseFares: map[VehicleType]int64{
			VehicleStandard:   4500,
			VehicleWheelchair: 7500,
			VehicleStretcher:  15000,
		},
		PerMileCents: 300,
		StairCharges: map[StairTier]int64{
			StairsNone:       0,
			StairsFew:        1500,
			StairsSome:       3500,
			StairsMany:       6000,
			StairsFullFlight: 7500,
		},
		RampCents:       2000,
		CompanionCents:  1500,
		StairChairCents: 4000,
		WaitTimeCents:   2500,
		PlatformFeeBps:  500,
		TaxBps:          800,
	}
}
