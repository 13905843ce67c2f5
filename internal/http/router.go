// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medride/internal/http/handlers"
	"medride/internal/http/middleware"
	"medride/internal/modules/booking"
	"medride/internal/modules/negotiation"
	"medride/internal/modules/pricing"
)

func NewRouter(
	pricingService *pricing.Service,
	bookingService *booking.Service,
	negotiationService *negotiation.Service,
	logger *slog.Logger,
) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	quoteHandler := handlers.NewQuoteHandler(pricingService)
	r.POST("/api/quotes", quoteHandler.Create)

	bookingHandler := handlers.NewBookingHandler(bookingService)
	r.POST("/api/rides", bookingHandler.Book)
	r.GET("/api/rides/:id", bookingHandler.Get)
	r.POST("/api/rides/:id/cancel", bookingHandler.Cancel)
	r.POST("/api/rides/:id/complete", bookingHandler.Complete)

	negotiationHandler := handlers.NewNegotiationHandler(negotiationService, bookingService)
	r.GET("/api/negotiations/:id", negotiationHandler.Get)
	r.POST("/api/negotiations/:id/counter", negotiationHandler.Counter)
	r.POST("/api/negotiations/:id/accept", negotiationHandler.Accept)
	r.POST("/api/negotiations/:id/reject", negotiationHandler.Reject)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
