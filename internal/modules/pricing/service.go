// README: Pricing service; tries the primary source and falls back to the backup calculator.
package pricing

import (
	"context"
	"errors"
	"log/slog"

	"medride/internal/observability"
)

// Source is one way of producing a quote. Callers never pick a source
// directly; they ask the Service and it works down the chain.
type Source interface {
	Quote(ctx context.Context, req QuoteRequest) (Quote, error)
}

type Service struct {
	primary Source // nil when no maps API key is configured
	backup  Source
	logger  *slog.Logger
}

func NewService(primary Source, backup Source, logger *slog.Logger) *Service {
	return &Service{primary: primary, backup: backup, logger: logger}
}

// Quote prices a trip. A primary failure is logged and counted but never
// surfaced: the whole point of the backup calculator is that a mapping
// outage degrades the quote, not the booking. If the request itself is
// unpriceable (bad coordinates, implausible distance) the backup will
// reject it for the same reason and that error is returned.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	if s.primary != nil {
		q, err := s.primary.Quote(ctx, req)
		if err == nil {
			observability.QuotesTotal.WithLabelValues(q.Source).Inc()
			return q, nil
		}
		if errors.Is(err, ErrUnpriceable) {
			// Not an outage: the trip itself cannot be priced.
			observability.QuoteFailures.Inc()
			return Quote{}, err
		}
		observability.PrimaryPricingErrors.Inc()
		if s.logger != nil {
			s.logger.Warn("primary pricing failed, using backup calculator", "error", err)
		}
	}

	q, err := s.backup.Quote(ctx, req)
	if err != nil {
		observability.QuoteFailures.Inc()
		return Quote{}, err
	}
	observability.QuotesTotal.WithLabelValues(q.Source).Inc()
	return q, nil
}
