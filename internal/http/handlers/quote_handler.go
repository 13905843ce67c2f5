// README: Quote handler; prices a trip without creating a ride.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medride/internal/modules/pricing"
	"medride/internal/types"
)

type QuoteHandler struct {
	pricing *pricing.Service
}

func NewQuoteHandler(svc *pricing.Service) *QuoteHandler {
	return &QuoteHandler{pricing: svc}
}

type quoteReq struct {
	PickupLat       float64 `json:"pickup_lat"`
	PickupLng       float64 `json:"pickup_lng"`
	DropoffLat      float64 `json:"dropoff_lat"`
	DropoffLng      float64 `json:"dropoff_lng"`
	VehicleType     string  `json:"vehicle_type"`
	PickupStairs    string  `json:"pickup_stairs"`
	DropoffStairs   string  `json:"dropoff_stairs"`
	NeedsRamp       bool    `json:"needs_ramp"`
	NeedsCompanion  bool    `json:"needs_companion"`
	NeedsStairChair bool    `json:"needs_stair_chair"`
	NeedsWaitTime   bool    `json:"needs_wait_time"`
	RoundTrip       bool    `json:"round_trip"`
}

func (r quoteReq) toRequest() pricing.QuoteRequest {
	return pricing.QuoteRequest{
		Pickup:      types.Point{Lat: r.PickupLat, Lng: r.PickupLng},
		Dropoff:     types.Point{Lat: r.DropoffLat, Lng: r.DropoffLng},
		VehicleType: pricing.VehicleType(r.VehicleType),
		Services: pricing.AdditionalServices{
			NeedsRamp:       r.NeedsRamp,
			NeedsCompanion:  r.NeedsCompanion,
			NeedsStairChair: r.NeedsStairChair,
			NeedsWaitTime:   r.NeedsWaitTime,
		},
		PickupStairs:  pricing.StairTier(r.PickupStairs),
		DropoffStairs: pricing.StairTier(r.DropoffStairs),
		RoundTrip:     r.RoundTrip,
	}
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.VehicleType == "" {
		writeError(c, http.StatusBadRequest, "missing vehicle_type")
		return
	}
	quote, err := h.pricing.Quote(c.Request.Context(), req.toRequest())
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, quote)
}
