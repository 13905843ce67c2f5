// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medride/internal/modules/booking"
	"medride/internal/modules/negotiation"
	"medride/internal/modules/pricing"
)

type errorResponse struct {
	Error string `json:"error"`
}

// boundsResponse carries the allowed band so the client can render the
// acceptable range next to the rejection.
type boundsResponse struct {
	Error    string `json:"error"`
	MinCents int64  `json:"min_cents"`
	MaxCents int64  `json:"max_cents"`
	Currency string `json:"currency"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writePricingError(c *gin.Context, err error) {
	if errors.Is(err, pricing.ErrUnpriceable) {
		writeError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(c, http.StatusInternalServerError, "internal error")
}

func writeNegotiationError(c *gin.Context, err error) {
	var bounds *negotiation.BoundsError
	if errors.As(err, &bounds) {
		writeJSON(c, http.StatusUnprocessableEntity, boundsResponse{
			Error:    bounds.Error(),
			MinCents: bounds.Min.Amount,
			MaxCents: bounds.Max.Amount,
			Currency: bounds.Min.Currency,
		})
		return
	}
	switch {
	case errors.Is(err, negotiation.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, negotiation.ErrNotFound), errors.Is(err, negotiation.ErrBidNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, negotiation.ErrInvalidActor):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, negotiation.ErrFinalOfferUnconfirmed):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, negotiation.ErrChainClosed),
		errors.Is(err, negotiation.ErrRoundLimit),
		errors.Is(err, negotiation.ErrDuplicateSubmission),
		errors.Is(err, negotiation.ErrStaleState):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrInvalidState), errors.Is(err, booking.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, pricing.ErrUnpriceable):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
