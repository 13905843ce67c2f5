// README: Booking service; quotes, classifies urgency, and seeds the negotiation chain.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"medride/internal/modules/negotiation"
	"medride/internal/modules/pricing"
	"medride/internal/observability"
	"medride/internal/types"
)

var (
	ErrNotFound     = errors.New("ride not found")
	ErrInvalidState = errors.New("invalid ride state transition")
	ErrConflict     = errors.New("ride state conflict")
	ErrBadRequest   = errors.New("bad request")
)

// Quoter is the slice of the pricing service the booking flow needs.
type Quoter interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (pricing.Quote, error)
}

// Negotiator opens the bid chain seeded with the quoted fare.
type Negotiator interface {
	Open(ctx context.Context, cmd negotiation.OpenCommand) (*negotiation.Chain, error)
}

// Dispatcher hands booked and cancelled rides to the fan-out boundary.
// Urgent rides must rank first there; actually notifying anyone is outside
// this engine.
type Dispatcher interface {
	RideBooked(ctx context.Context, r *Ride)
	RideCancelled(ctx context.Context, r *Ride, fee types.Money)
}

type Service struct {
	store      Store
	pricing    Quoter
	negotiator Negotiator
	dispatcher Dispatcher // optional
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(store Store, pricing Quoter, negotiator Negotiator, dispatcher Dispatcher, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		pricing:    pricing,
		negotiator: negotiator,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

type BookCommand struct {
	RiderID       types.ID
	Pickup        types.Point
	Dropoff       types.Point
	VehicleType   pricing.VehicleType
	Services      pricing.AdditionalServices
	PickupStairs  pricing.StairTier
	DropoffStairs pricing.StairTier
	RoundTrip     bool
	ScheduledAt   time.Time
	Notes         string
}

// Book creates a ride: price it (primary path with backup fallback),
// classify urgency once, persist, and open the negotiation chain with the
// quote total as the original bid amount.
func (s *Service) Book(ctx context.Context, cmd BookCommand) (*Ride, error) {
	if cmd.RiderID == "" || cmd.ScheduledAt.IsZero() {
		return nil, ErrBadRequest
	}

	quote, err := s.pricing.Quote(ctx, pricing.QuoteRequest{
		Pickup:        cmd.Pickup,
		Dropoff:       cmd.Dropoff,
		VehicleType:   cmd.VehicleType,
		Services:      cmd.Services,
		PickupStairs:  cmd.PickupStairs,
		DropoffStairs: cmd.DropoffStairs,
		RoundTrip:     cmd.RoundTrip,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	ride := &Ride{
		ID:            types.ID(uuid.NewString()),
		RiderID:       cmd.RiderID,
		Pickup:        cmd.Pickup,
		Dropoff:       cmd.Dropoff,
		VehicleType:   cmd.VehicleType,
		Services:      cmd.Services,
		PickupStairs:  cmd.PickupStairs,
		DropoffStairs: cmd.DropoffStairs,
		RoundTrip:     cmd.RoundTrip,
		ScheduledAt:   cmd.ScheduledAt,
		Status:        StatusRequested,
		Urgency:       ClassifyUrgency(cmd.ScheduledAt, now),
		Quote:         &quote,
		CreatedAt:     now,
	}
	if err := s.store.CreateRide(ctx, ride); err != nil {
		return nil, err
	}

	chain, err := s.negotiator.Open(ctx, negotiation.OpenCommand{
		RideID: ride.ID,
		Amount: quote.EstimatedFare,
		Notes:  cmd.Notes,
		Actor:  negotiation.ActorRider,
	})
	if err != nil {
		return nil, err
	}

	ok, err := s.store.UpdateStatus(ctx, ride.ID, StatusRequested, StatusNegotiating, ride.StatusVersion, StatusUpdate{ChainID: &chain.ID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	ride.Status = StatusNegotiating
	ride.StatusVersion++
	ride.ChainID = &chain.ID

	if ride.Urgency.IsUrgent {
		observability.UrgentRidesTotal.Inc()
	}
	if s.logger != nil {
		s.logger.Info("ride booked",
			"ride_id", ride.ID,
			"urgent", ride.Urgency.IsUrgent,
			"quote_source", quote.Source,
			"estimated_fare", quote.EstimatedFare.Amount,
		)
	}
	if s.dispatcher != nil {
		s.dispatcher.RideBooked(ctx, ride)
	}
	return ride, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.GetRide(ctx, id)
}

type ConfirmCommand struct {
	RideID      types.ID
	AgreedPrice types.Money
}

// Confirm moves a ride to confirmed once its negotiation chain settled on
// a price.
func (s *Service) Confirm(ctx context.Context, cmd ConfirmCommand) (*Ride, error) {
	ride, err := s.store.GetRide(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(ride.Status, StatusConfirmed) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, ride.ID, ride.Status, StatusConfirmed, ride.StatusVersion, StatusUpdate{FinalAmount: &cmd.AgreedPrice})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	ride.Status = StatusConfirmed
	ride.StatusVersion++
	ride.FinalAmount = &cmd.AgreedPrice
	return ride, nil
}

type CancelCommand struct {
	RideID types.ID
	Reason string
}

// Cancel cancels a non-terminal ride. The returned fee is what the rider
// owes: the flat urgent-ride fee frozen at booking time, zero otherwise.
// Collecting it belongs to the billing layer.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) (types.Money, error) {
	ride, err := s.store.GetRide(ctx, cmd.RideID)
	if err != nil {
		return types.Money{}, err
	}
	if !CanTransition(ride.Status, StatusCancelled) {
		return types.Money{}, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, ride.ID, ride.Status, StatusCancelled, ride.StatusVersion, StatusUpdate{CancelReason: &cmd.Reason})
	if err != nil {
		return types.Money{}, err
	}
	if !ok {
		return types.Money{}, ErrConflict
	}
	ride.Status = StatusCancelled

	fee := ride.Urgency.CancellationFee
	if s.dispatcher != nil {
		s.dispatcher.RideCancelled(ctx, ride, fee)
	}
	return fee, nil
}

// Complete marks a confirmed ride as done.
func (s *Service) Complete(ctx context.Context, rideID types.ID) error {
	ride, err := s.store.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	if !CanTransition(ride.Status, StatusCompleted) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, ride.ID, ride.Status, StatusCompleted, ride.StatusVersion, StatusUpdate{})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}
