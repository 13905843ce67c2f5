// README: Negotiation handlers; counter-offers, acceptance, and rejection.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medride/internal/modules/booking"
	"medride/internal/modules/negotiation"
	"medride/internal/types"
)

type NegotiationHandler struct {
	negotiation *negotiation.Service
	booking     *booking.Service
}

func NewNegotiationHandler(neg *negotiation.Service, book *booking.Service) *NegotiationHandler {
	return &NegotiationHandler{negotiation: neg, booking: book}
}

// chainView wraps the chain with the derived fields a client needs to
// drive the flow: how many counters remain, the allowed band, and whether
// the next counter is the final one and needs explicit confirmation.
type chainView struct {
	*negotiation.Chain
	RemainingOffers int   `json:"remaining_offers"`
	MinCents        int64 `json:"min_cents"`
	MaxCents        int64 `json:"max_cents"`
	IsFinalOffer    bool  `json:"is_final_offer"`
}

func viewOf(chain *negotiation.Chain) chainView {
	min, max := chain.Bounds()
	return chainView{
		Chain:           chain,
		RemainingOffers: chain.RemainingOffers(),
		MinCents:        min.Amount,
		MaxCents:        max.Amount,
		IsFinalOffer:    !chain.Settled() && chain.Status != negotiation.StatusExpired && chain.RemainingOffers() == 1,
	}
}

func (h *NegotiationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing chain id")
		return
	}
	chain, err := h.negotiation.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeNegotiationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOf(chain))
}

type counterOfferReq struct {
	Actor          string `json:"actor"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	Notes          string `json:"notes"`
	FinalConfirmed bool   `json:"final_confirmed"`
}

func (h *NegotiationHandler) Counter(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing chain id")
		return
	}
	var req counterOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	chain, err := h.negotiation.SubmitCounterOffer(c.Request.Context(), negotiation.CounterOfferCommand{
		ChainID:        types.ID(id),
		Amount:         types.Money{Amount: req.AmountCents, Currency: req.Currency},
		Notes:          req.Notes,
		Actor:          negotiation.Actor(req.Actor),
		FinalConfirmed: req.FinalConfirmed,
	})
	if err != nil {
		writeNegotiationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOf(chain))
}

type acceptReq struct {
	Actor string `json:"actor"`
	BidID string `json:"bid_id"`
}

// Accept settles the chain on the named bid and moves the ride to
// confirmed at the agreed price.
func (h *NegotiationHandler) Accept(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing chain id")
		return
	}
	var req acceptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.BidID == "" {
		writeError(c, http.StatusBadRequest, "missing bid_id")
		return
	}
	chain, err := h.negotiation.Accept(c.Request.Context(), negotiation.AcceptCommand{
		ChainID: types.ID(id),
		BidID:   types.ID(req.BidID),
		Actor:   negotiation.Actor(req.Actor),
	})
	if err != nil {
		writeNegotiationError(c, err)
		return
	}
	if _, err := h.booking.Confirm(c.Request.Context(), booking.ConfirmCommand{
		RideID:      chain.RideID,
		AgreedPrice: *chain.AgreedAmount,
	}); err != nil {
		// The acceptance is committed; the ride no longer admits
		// confirmation (cancelled in the meantime, most likely).
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOf(chain))
}

type rejectReq struct {
	Actor string `json:"actor"`
}

func (h *NegotiationHandler) Reject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing chain id")
		return
	}
	var req rejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	chain, err := h.negotiation.Reject(c.Request.Context(), negotiation.RejectCommand{
		ChainID: types.ID(id),
		Actor:   negotiation.Actor(req.Actor),
	})
	if err != nil {
		writeNegotiationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOf(chain))
}
