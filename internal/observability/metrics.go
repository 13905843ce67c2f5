// README: Prometheus metrics for pricing, negotiation, and HTTP traffic.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "medride", Name: "quotes_total", Help: "Fare quotes served, by source"},
		[]string{"source"},
	)
	QuoteFailures = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "medride", Name: "quote_failures_total", Help: "Quote requests that no pricing source could answer"},
	)
	PrimaryPricingErrors = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "medride", Name: "primary_pricing_errors_total", Help: "Primary pricing path failures that triggered the backup calculator"},
	)

	CounterOffersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "medride", Name: "counter_offers_total", Help: "Counter-offer submissions, by result"},
		[]string{"result"},
	)
	NegotiationsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "medride", Name: "negotiations_closed_total", Help: "Negotiation chains reaching a terminal status"},
		[]string{"status"},
	)

	UrgentRidesTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "medride", Name: "urgent_rides_total", Help: "Rides classified urgent at booking time"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "medride", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medride",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
