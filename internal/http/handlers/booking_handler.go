// README: Ride booking handlers for book/get/cancel/complete.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medride/internal/modules/booking"
	"medride/internal/modules/pricing"
	"medride/internal/types"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

type bookRideReq struct {
	RiderID         string  `json:"rider_id"`
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
	ScheduledAt     string  `json:"scheduled_at"` // RFC 3339
	Notes           string  `json:"notes"`
}

func (h *BookingHandler) Book(c *gin.Context) {
	var req bookRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.RiderID == "" || req.VehicleType == "" || req.ScheduledAt == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		writeError(c, http.StatusBadRequest, "scheduled_at must be RFC 3339")
		return
	}

	ride, err := h.booking.Book(c.Request.Context(), booking.BookCommand{
		RiderID:     types.ID(req.RiderID),
		Pickup:      types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Dropoff:     types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		VehicleType: pricing.VehicleType(req.VehicleType),
		Services: pricing.AdditionalServices{
			NeedsRamp:       req.NeedsRamp,
			NeedsCompanion:  req.NeedsCompanion,
			NeedsStairChair: req.NeedsStairChair,
			NeedsWaitTime:   req.NeedsWaitTime,
		},
		PickupStairs:  pricing.StairTier(req.PickupStairs),
		DropoffStairs: pricing.StairTier(req.DropoffStairs),
		RoundTrip:     req.RoundTrip,
		ScheduledAt:   scheduledAt,
		Notes:         req.Notes,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, ride)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	ride, err := h.booking.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, ride)
}

type cancelRideReq struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	var req cancelRideReq
	if c.Request.Body != nil {
		_ = c.ShouldBindJSON(&req) // body is optional
	}
	fee, err := h.booking.Cancel(c.Request.Context(), booking.CancelCommand{
		RideID: types.ID(id),
		Reason: req.Reason,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"status":                 booking.StatusCancelled,
		"cancellation_fee_cents": fee.Amount,
		"currency":               fee.Currency,
	})
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	if err := h.booking.Complete(c.Request.Context(), types.ID(id)); err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": booking.StatusCompleted})
}
