// README: Bid negotiation engine; state transitions under per-chain serialization.
package negotiation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"medride/internal/observability"
	"medride/internal/types"
)

// Store is the persistence boundary for chains. Every mutate takes the
// version the caller read; a false return means another writer got there
// first and the caller must re-read.
type Store interface {
	CreateChain(ctx context.Context, c *Chain) error
	GetChain(ctx context.Context, id types.ID) (*Chain, error)
	GetChainByRide(ctx context.Context, rideID types.ID) (*Chain, error)
	AppendBid(ctx context.Context, chainID types.ID, bid Bid, status Status, round int, expectVersion int) (bool, error)
	SetStatus(ctx context.Context, chainID types.ID, status Status, agreed *types.Money, expectVersion int) (bool, error)
}

// EventSink receives terminal and counter events for dispatch fan-out.
// Delivery is someone else's problem; the engine only hands them over.
type EventSink interface {
	ChainEvent(ctx context.Context, chain *Chain, event string)
}

type Service struct {
	store     Store
	events    EventSink // optional
	maxRounds int
	logger    *slog.Logger

	// Per-chain mutexes serialize concurrent submissions within this
	// process; the store's version check catches racers across processes.
	// Chains for different rides stay fully independent.
	mu    sync.Mutex
	locks map[types.ID]*sync.Mutex
}

func NewService(store Store, events EventSink, maxRounds int, logger *slog.Logger) *Service {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Service{
		store:     store,
		events:    events,
		maxRounds: maxRounds,
		logger:    logger,
		locks:     make(map[types.ID]*sync.Mutex),
	}
}

func (s *Service) lockChain(id types.ID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

type OpenCommand struct {
	RideID types.ID
	Amount types.Money
	Notes  string
	Actor  Actor
}

// Open creates a chain with its first bid. The first bid's amount becomes
// the chain's OriginalAmount and anchors every later bound check.
func (s *Service) Open(ctx context.Context, cmd OpenCommand) (*Chain, error) {
	if cmd.RideID == "" || cmd.Amount.Amount <= 0 || !cmd.Actor.Valid() {
		return nil, ErrBadRequest
	}
	now := time.Now()
	chain := &Chain{
		ID:             newID(),
		RideID:         cmd.RideID,
		OriginalAmount: cmd.Amount,
		MaxRounds:      s.maxRounds,
		Status:         StatusProposed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	chain.Bids = []Bid{{
		ID:        newID(),
		ChainID:   chain.ID,
		Amount:    cmd.Amount,
		Notes:     cmd.Notes,
		Round:     0,
		CreatedBy: cmd.Actor,
		CreatedAt: now,
	}}
	if err := s.store.CreateChain(ctx, chain); err != nil {
		return nil, err
	}
	return chain, nil
}

type CounterOfferCommand struct {
	ChainID types.ID
	Amount  types.Money
	Notes   string
	Actor   Actor
	// FinalConfirmed is the caller's explicit-confirmation token. The engine
	// refuses the last allowed counter without it; showing the warning is
	// the calling layer's job, gated on IsFinalOffer.
	FinalConfirmed bool
}

// SubmitCounterOffer validates and appends a counter-offer.
func (s *Service) SubmitCounterOffer(ctx context.Context, cmd CounterOfferCommand) (*Chain, error) {
	if !cmd.Actor.Valid() || cmd.Amount.Amount <= 0 {
		observability.CounterOffersTotal.WithLabelValues("bad_request").Inc()
		return nil, ErrBadRequest
	}

	unlock := s.lockChain(cmd.ChainID)
	defer unlock()

	chain, err := s.store.GetChain(ctx, cmd.ChainID)
	if err != nil {
		return nil, err
	}

	if chain.Settled() || chain.Status == StatusExpired {
		observability.CounterOffersTotal.WithLabelValues("closed").Inc()
		if chain.Status == StatusExpired {
			return nil, ErrRoundLimit
		}
		return nil, ErrChainClosed
	}

	last := chain.LastBid()

	// A retry of the last successful submission must not create a phantom
	// round. Checked before the turn rule: a retried success necessarily
	// looks like countering one's own bid.
	if last != nil && last.CreatedBy == cmd.Actor && last.Amount == cmd.Amount && last.Notes == cmd.Notes {
		observability.CounterOffersTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicateSubmission
	}
	// You counter the other side's offer, not your own.
	if last != nil && last.CreatedBy == cmd.Actor {
		observability.CounterOffersTotal.WithLabelValues("invalid_actor").Inc()
		return nil, ErrInvalidActor
	}

	remaining := chain.RemainingOffers()
	if remaining == 0 {
		// The limit is reached: the chain expires now and only accept or
		// reject remain.
		ok, err := s.store.SetStatus(ctx, chain.ID, StatusExpired, nil, chain.Version)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrStaleState
		}
		chain.Status = StatusExpired
		s.emit(ctx, chain, "negotiation.expired")
		observability.CounterOffersTotal.WithLabelValues("round_limit").Inc()
		observability.NegotiationsClosed.WithLabelValues(string(StatusExpired)).Inc()
		return nil, ErrRoundLimit
	}

	min, max := chain.Bounds()
	if cmd.Amount.Amount < min.Amount || cmd.Amount.Amount > max.Amount {
		observability.CounterOffersTotal.WithLabelValues("bounds").Inc()
		return nil, &BoundsError{Min: min, Max: max}
	}

	if remaining == 1 && !cmd.FinalConfirmed {
		observability.CounterOffersTotal.WithLabelValues("unconfirmed_final").Inc()
		return nil, ErrFinalOfferUnconfirmed
	}

	bid := Bid{
		ID:        newID(),
		ChainID:   chain.ID,
		Amount:    cmd.Amount,
		Notes:     cmd.Notes,
		Round:     chain.CurrentRound + 1,
		CreatedBy: cmd.Actor,
		CreatedAt: time.Now(),
	}
	ok, err := s.store.AppendBid(ctx, chain.ID, bid, StatusCountered, bid.Round, chain.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.CounterOffersTotal.WithLabelValues("stale").Inc()
		return nil, ErrStaleState
	}

	chain.Bids = append(chain.Bids, bid)
	chain.CurrentRound = bid.Round
	chain.Status = StatusCountered
	chain.Version++
	chain.UpdatedAt = bid.CreatedAt

	s.emit(ctx, chain, "negotiation.countered")
	observability.CounterOffersTotal.WithLabelValues("ok").Inc()
	return chain, nil
}

type AcceptCommand struct {
	ChainID types.ID
	BidID   types.ID
	Actor   Actor
}

// Accept settles the chain on one of its bids. Only the counterparty of the
// bid's creator may accept it.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Chain, error) {
	if !cmd.Actor.Valid() {
		return nil, ErrBadRequest
	}

	unlock := s.lockChain(cmd.ChainID)
	defer unlock()

	chain, err := s.store.GetChain(ctx, cmd.ChainID)
	if err != nil {
		return nil, err
	}
	if chain.Settled() {
		return nil, ErrChainClosed
	}

	var accepted *Bid
	for i := range chain.Bids {
		if chain.Bids[i].ID == cmd.BidID {
			accepted = &chain.Bids[i]
			break
		}
	}
	if accepted == nil {
		return nil, ErrBidNotFound
	}
	if accepted.CreatedBy == cmd.Actor {
		return nil, ErrInvalidActor
	}

	ok, err := s.store.SetStatus(ctx, chain.ID, StatusAccepted, &accepted.Amount, chain.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}

	chain.Status = StatusAccepted
	chain.AgreedAmount = &accepted.Amount
	chain.Version++
	chain.UpdatedAt = time.Now()

	s.emit(ctx, chain, "negotiation.accepted")
	observability.NegotiationsClosed.WithLabelValues(string(StatusAccepted)).Inc()
	return chain, nil
}

type RejectCommand struct {
	ChainID types.ID
	Actor   Actor
}

// Reject closes the chain. Either party may walk away at any point before
// settlement, including after expiry.
func (s *Service) Reject(ctx context.Context, cmd RejectCommand) (*Chain, error) {
	if !cmd.Actor.Valid() {
		return nil, ErrBadRequest
	}

	unlock := s.lockChain(cmd.ChainID)
	defer unlock()

	chain, err := s.store.GetChain(ctx, cmd.ChainID)
	if err != nil {
		return nil, err
	}
	if chain.Settled() {
		return nil, ErrChainClosed
	}

	ok, err := s.store.SetStatus(ctx, chain.ID, StatusRejected, nil, chain.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}

	chain.Status = StatusRejected
	chain.Version++
	chain.UpdatedAt = time.Now()

	s.emit(ctx, chain, "negotiation.rejected")
	observability.NegotiationsClosed.WithLabelValues(string(StatusRejected)).Inc()
	return chain, nil
}

// Get returns the chain for display: remaining offers, bounds, and the
// final-offer warning all derive from it.
func (s *Service) Get(ctx context.Context, id types.ID) (*Chain, error) {
	return s.store.GetChain(ctx, id)
}

// GetByRide looks up the chain attached to a ride.
func (s *Service) GetByRide(ctx context.Context, rideID types.ID) (*Chain, error) {
	return s.store.GetChainByRide(ctx, rideID)
}

// IsFinalOffer reports whether the next counter-offer would be the last one
// the round limit allows. Callers gate that submission behind an explicit
// confirmation step.
func (s *Service) IsFinalOffer(ctx context.Context, id types.ID) (bool, error) {
	chain, err := s.store.GetChain(ctx, id)
	if err != nil {
		return false, err
	}
	return !chain.Settled() && chain.Status != StatusExpired && chain.RemainingOffers() == 1, nil
}

func (s *Service) emit(ctx context.Context, chain *Chain, event string) {
	if s.logger != nil {
		s.logger.Info(event,
			"chain_id", chain.ID,
			"ride_id", chain.RideID,
			"round", chain.CurrentRound,
			"status", chain.Status,
		)
	}
	if s.events == nil {
		return
	}
	s.events.ChainEvent(ctx, chain, event)
}

func newID() types.ID {
	return types.ID(uuid.NewString())
}
