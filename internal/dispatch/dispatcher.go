// README: Dispatcher glues bookings and negotiation outcomes to the fan-out boundary.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"medride/internal/modules/booking"
	"medride/internal/modules/negotiation"
	"medride/internal/types"
)

// Producer is any sink for boundary events; the Kafka producer in
// production, a recorder in tests.
type Producer interface {
	Publish(ctx context.Context, e Event)
}

type Dispatcher struct {
	producer Producer
	queue    *PriorityQueue // optional
	logger   *slog.Logger
}

func New(producer Producer, queue *PriorityQueue, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{producer: producer, queue: queue, logger: logger}
}

// RideBooked publishes the booking and enqueues it for driver matching.
// Urgent rides get the urgent event type and a priority boost in the queue.
func (d *Dispatcher) RideBooked(ctx context.Context, r *booking.Ride) {
	evType := EventRideBooked
	if r.Urgency.IsUrgent {
		evType = EventRideUrgent
	}
	d.producer.Publish(ctx, Event{
		Type:       evType,
		RideID:     r.ID,
		Status:     string(r.Status),
		IsUrgent:   r.Urgency.IsUrgent,
		OccurredAt: time.Now(),
	})
	if d.queue != nil {
		if err := d.queue.Enqueue(ctx, r.ID, r.ScheduledAt, r.Urgency.IsUrgent); err != nil && d.logger != nil {
			d.logger.Error("enqueue ride for dispatch", "ride_id", r.ID, "error", err)
		}
	}
}

// RideCancelled publishes the cancellation with the fee the rider owes.
func (d *Dispatcher) RideCancelled(ctx context.Context, r *booking.Ride, fee types.Money) {
	d.producer.Publish(ctx, Event{
		Type:       EventRideCancelled,
		RideID:     r.ID,
		Status:     string(r.Status),
		Amount:     &fee,
		IsUrgent:   r.Urgency.IsUrgent,
		OccurredAt: time.Now(),
	})
	if d.queue != nil {
		if err := d.queue.Remove(ctx, r.ID); err != nil && d.logger != nil {
			d.logger.Error("remove cancelled ride from queue", "ride_id", r.ID, "error", err)
		}
	}
}

// ChainEvent implements negotiation.EventSink.
func (d *Dispatcher) ChainEvent(ctx context.Context, chain *negotiation.Chain, event string) {
	e := Event{
		Type:       event,
		RideID:     chain.RideID,
		ChainID:    chain.ID,
		Round:      chain.CurrentRound,
		Status:     string(chain.Status),
		OccurredAt: time.Now(),
	}
	if chain.AgreedAmount != nil {
		e.Amount = chain.AgreedAmount
	}
	d.producer.Publish(ctx, e)
}
