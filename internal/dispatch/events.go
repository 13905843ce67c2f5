// README: Event payloads handed over to the notification/dispatch boundary.
package dispatch

import (
	"time"

	"medride/internal/types"
)

// Event is the envelope published for every boundary handoff. Delivery to
// drivers and riders happens downstream; this engine only guarantees the
// event reflects a committed state change.
type Event struct {
	Type       string       `json:"type"`
	RideID     types.ID     `json:"ride_id"`
	ChainID    types.ID     `json:"chain_id,omitempty"`
	Round      int          `json:"round,omitempty"`
	Status     string       `json:"status,omitempty"`
	Amount     *types.Money `json:"amount,omitempty"`
	IsUrgent   bool         `json:"is_urgent,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

const (
	EventRideBooked    = "ride.booked"
	EventRideUrgent    = "ride.urgent"
	EventRideCancelled = "ride.cancelled"

	EventChainCountered = "negotiation.countered"
	EventChainAccepted  = "negotiation.accepted"
	EventChainRejected  = "negotiation.rejected"
	EventChainExpired   = "negotiation.expired"
)
