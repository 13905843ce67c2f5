// README: Ride aggregate, status flow, and urgency flag definitions.
package booking

import (
	"time"

	"medride/internal/modules/pricing"
	"medride/internal/types"
)

type Status string

const (
	StatusNone        Status = "none"
	StatusRequested   Status = "requested"
	StatusNegotiating Status = "negotiating"
	StatusConfirmed   Status = "confirmed"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

// AllowedTransitions represents the ride state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:   {StatusNegotiating, StatusCancelled},
	StatusNegotiating: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:   {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// UrgencyFlag is computed once at booking confirmation and never
// re-evaluated; re-checking later would let a rider dodge the cancellation
// fee by waiting out the clock.
type UrgencyFlag struct {
	IsUrgent         bool        `json:"is_urgent"`
	HoursUntilPickup float64     `json:"hours_until_pickup"`
	CancellationFee  types.Money `json:"cancellation_fee"`
}

type Ride struct {
	ID            types.ID                   `json:"id"`
	RiderID       types.ID                   `json:"rider_id"`
	Pickup        types.Point                `json:"pickup"`
	Dropoff       types.Point                `json:"dropoff"`
	VehicleType   pricing.VehicleType        `json:"vehicle_type"`
	Services      pricing.AdditionalServices `json:"services"`
	PickupStairs  pricing.StairTier          `json:"pickup_stairs"`
	DropoffStairs pricing.StairTier          `json:"dropoff_stairs"`
	RoundTrip     bool                       `json:"round_trip"`
	ScheduledAt   time.Time                  `json:"scheduled_at"`
	Status        Status                     `json:"status"`
	StatusVersion int                        `json:"-"`
	Urgency       UrgencyFlag                `json:"urgency"`
	Quote         *pricing.Quote             `json:"quote,omitempty"`
	ChainID       *types.ID                  `json:"chain_id,omitempty"`
	FinalAmount   *types.Money               `json:"final_amount,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	CancelledAt   *time.Time                 `json:"cancelled_at,omitempty"`
	CancelReason  *string                    `json:"cancel_reason,omitempty"`
}
