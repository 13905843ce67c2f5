// README: Sentinel errors and the structured bounds-violation error.
package negotiation

import (
	"errors"
	"fmt"

	"medride/internal/types"
)

var (
	ErrNotFound             = errors.New("negotiation chain not found")
	ErrBidNotFound          = errors.New("bid not found in chain")
	ErrChainClosed          = errors.New("negotiation chain already settled")
	ErrRoundLimit           = errors.New("no more counter-offers allowed, accept or decline")
	ErrInvalidActor         = errors.New("actor may not perform this action")
	ErrDuplicateSubmission  = errors.New("duplicate counter-offer submission")
	ErrFinalOfferUnconfirmed = errors.New("final offer requires explicit confirmation")
	ErrStaleState           = errors.New("chain changed concurrently, re-read and retry")
	ErrBadRequest           = errors.New("bad request")
)

// BoundsError carries the computed band so the UI can tell the user what
// range would be accepted.
type BoundsError struct {
	Min types.Money
	Max types.Money
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("counter-offer outside allowed range %s to %s", e.Min, e.Max)
}
