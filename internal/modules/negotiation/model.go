// README: Bid chain aggregate and status definitions.
package negotiation

import (
	"time"

	"medride/internal/types"
)

// Actor identifies which side of the negotiation performed an action.
type Actor string

const (
	ActorRider  Actor = "rider"
	ActorDriver Actor = "driver"
)

func (a Actor) Valid() bool {
	return a == ActorRider || a == ActorDriver
}

// Counterparty returns the other side of the table.
func (a Actor) Counterparty() Actor {
	if a == ActorRider {
		return ActorDriver
	}
	return ActorRider
}

type Status string

const (
	// StatusProposed: the opening bid exists, no counter yet.
	StatusProposed Status = "proposed"
	// StatusCountered: at least one counter-offer has been exchanged.
	StatusCountered Status = "countered"
	// StatusAccepted and StatusRejected settle the chain; it is immutable after.
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	// StatusExpired: the round limit was reached with no acceptance. No
	// further counters are possible, but an existing bid can still be
	// accepted (accept-or-walk-away).
	StatusExpired Status = "expired"
)

// DefaultMaxRounds is the number of counter-offers allowed after the
// opening bid.
const DefaultMaxRounds = 3

// Price flexibility band, in percent of the chain's original amount.
// Bounds are always computed against OriginalAmount, never the most recent
// counter; anchoring to the latest offer would let alternating counters
// walk the price arbitrarily far from where the negotiation started.
const flexibilityPct = 30

type Bid struct {
	ID        types.ID    `json:"id"`
	ChainID   types.ID    `json:"chain_id"`
	Amount    types.Money `json:"amount"`
	Notes     string      `json:"notes,omitempty"`
	Round     int         `json:"round"`
	CreatedBy Actor       `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// Chain is the ordered sequence of bids between one rider and one driver
// for one ride.
type Chain struct {
	ID             types.ID     `json:"id"`
	RideID         types.ID     `json:"ride_id"`
	OriginalAmount types.Money  `json:"original_amount"`
	MaxRounds      int          `json:"max_rounds"`
	CurrentRound   int          `json:"current_round"`
	Status         Status       `json:"status"`
	AgreedAmount   *types.Money `json:"agreed_amount,omitempty"`
	Bids           []Bid        `json:"bids"`
	Version        int          `json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// LastBid returns the most recent bid in the chain.
func (c *Chain) LastBid() *Bid {
	if len(c.Bids) == 0 {
		return nil
	}
	return &c.Bids[len(c.Bids)-1]
}

// RemainingOffers is how many more counter-offers the round limit allows.
// The opening bid does not consume a round.
func (c *Chain) RemainingOffers() int {
	remaining := c.MaxRounds - (len(c.Bids) - 1)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Settled reports whether the chain reached a final agreement or refusal.
// An expired chain is not settled: countering is closed but a party can
// still accept an existing bid.
func (c *Chain) Settled() bool {
	return c.Status == StatusAccepted || c.Status == StatusRejected
}

// Bounds returns the allowed counter-offer range for this chain.
func (c *Chain) Bounds() (min, max types.Money) {
	return boundFor(c.OriginalAmount, 100-flexibilityPct), boundFor(c.OriginalAmount, 100+flexibilityPct)
}

// boundFor computes amount * pct/100 in cents, rounding half up.
func boundFor(amount types.Money, pct int64) types.Money {
	cents := (amount.Amount*pct + 50) / 100
	return types.Money{Amount: cents, Currency: amount.Currency}
}
