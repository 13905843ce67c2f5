// README: Negotiation engine tests (bounds, rounds, actors, settlement).
package negotiation

import (
	"context"
	"errors"
	"testing"

	"medride/internal/types"
)

func newTestService() *Service {
	return NewService(NewMemoryStore(), nil, DefaultMaxRounds, nil)
}

func mustOpen(t *testing.T, svc *Service, cents int64, actor Actor) *Chain {
	t.Helper()
	chain, err := svc.Open(context.Background(), OpenCommand{
		RideID: "ride-1",
		Amount: types.USD(cents),
		Actor:  actor,
	})
	if err != nil {
		t.Fatalf("open chain: %v", err)
	}
	return chain
}

func counter(svc *Service, chainID types.ID, cents int64, actor Actor, final bool) (*Chain, error) {
	return svc.SubmitCounterOffer(context.Background(), CounterOfferCommand{
		ChainID:        chainID,
		Amount:         types.USD(cents),
		Actor:          actor,
		FinalConfirmed: final,
	})
}

func TestSubmitCounterOffer_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		cents     int64
		wantOK    bool
	}{
		{"floor exactly", 7000, true},
		{"ceiling exactly", 13000, true},
		{"inside band", 10500, true},
		{"one cent under floor", 6999, false},
		{"one cent over ceiling", 13001, false},
		{"half the anchor", 5000, false},
		{"double the anchor", 20000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			chain := mustOpen(t, svc, 10000, ActorRider)

			_, err := counter(svc, chain.ID, tt.cents, ActorDriver, false)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("counter at %d: %v", tt.cents, err)
				}
				return
			}
			var be *BoundsError
			if !errors.As(err, &be) {
				t.Fatalf("counter at %d: got %v, want BoundsError", tt.cents, err)
			}
			if be.Min.Amount != 7000 || be.Max.Amount != 13000 {
				t.Errorf("bounds = [%d, %d], want [7000, 13000]", be.Min.Amount, be.Max.Amount)
			}
		})
	}
}

func TestSubmitCounterOffer_BoundsAnchorToOriginalAmount(t *testing.T) {
	// After a counter at the ceiling, the band must not re-anchor to it.
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)

	if _, err := counter(svc, chain.ID, 13000, ActorDriver, false); err != nil {
		t.Fatalf("first counter: %v", err)
	}
	// 30% above the latest counter would allow 16900; the original anchor
	// does not.
	_, err := counter(svc, chain.ID, 14000, ActorRider, false)
	var be *BoundsError
	if !errors.As(err, &be) {
		t.Fatalf("got %v, want BoundsError anchored to original amount", err)
	}
	if be.Max.Amount != 13000 {
		t.Errorf("max bound = %d, want 13000", be.Max.Amount)
	}
}

func TestSubmitCounterOffer_RoundLimitExpiresChain(t *testing.T) {
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)

	steps := []struct {
		cents int64
		actor Actor
		final bool
	}{
		{9000, ActorDriver, false},
		{9600, ActorRider, false},
		{9300, ActorDriver, true}, // third and last counter, confirmed
	}
	for i, st := range steps {
		updated, err := counter(svc, chain.ID, st.cents, st.actor, st.final)
		if err != nil {
			t.Fatalf("counter %d: %v", i+1, err)
		}
		if updated.CurrentRound != i+1 {
			t.Errorf("counter %d: round = %d, want %d", i+1, updated.CurrentRound, i+1)
		}
		if updated.Status != StatusCountered {
			t.Errorf("counter %d: status = %s, want %s", i+1, updated.Status, StatusCountered)
		}
	}

	_, err := counter(svc, chain.ID, 9400, ActorRider, true)
	if !errors.Is(err, ErrRoundLimit) {
		t.Fatalf("fourth counter: got %v, want ErrRoundLimit", err)
	}
	got, err := svc.Get(context.Background(), chain.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusExpired {
		t.Errorf("status after limit = %s, want %s", got.Status, StatusExpired)
	}
	if got.RemainingOffers() != 0 {
		t.Errorf("remaining offers = %d, want 0", got.RemainingOffers())
	}

	// Countering is closed but settlement is not: the rider can still take
	// the driver's last offer.
	last := got.LastBid()
	settled, err := svc.Accept(context.Background(), AcceptCommand{ChainID: chain.ID, BidID: last.ID, Actor: ActorRider})
	if err != nil {
		t.Fatalf("accept after expiry: %v", err)
	}
	if settled.Status != StatusAccepted || settled.AgreedAmount == nil || settled.AgreedAmount.Amount != 9300 {
		t.Errorf("settled = %s / %v, want accepted at 9300", settled.Status, settled.AgreedAmount)
	}
}

func TestSubmitCounterOffer_FinalOfferConfirmationGate(t *testing.T) {
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)
	ctx := context.Background()

	if _, err := counter(svc, chain.ID, 9000, ActorDriver, false); err != nil {
		t.Fatalf("counter 1: %v", err)
	}
	if _, err := counter(svc, chain.ID, 9600, ActorRider, false); err != nil {
		t.Fatalf("counter 2: %v", err)
	}

	final, err := svc.IsFinalOffer(ctx, chain.ID)
	if err != nil {
		t.Fatalf("is final offer: %v", err)
	}
	if !final {
		t.Fatal("third counter should be flagged as the final offer")
	}

	if _, err := counter(svc, chain.ID, 9300, ActorDriver, false); !errors.Is(err, ErrFinalOfferUnconfirmed) {
		t.Fatalf("unconfirmed final counter: got %v, want ErrFinalOfferUnconfirmed", err)
	}
	if _, err := counter(svc, chain.ID, 9300, ActorDriver, true); err != nil {
		t.Fatalf("confirmed final counter: %v", err)
	}
}

func TestSubmitCounterOffer_DuplicateRetry(t *testing.T) {
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)

	if _, err := counter(svc, chain.ID, 9000, ActorDriver, false); err != nil {
		t.Fatalf("counter: %v", err)
	}
	// Same (amount, notes, actor) tuple again: a retry, not a new round.
	_, err := counter(svc, chain.ID, 9000, ActorDriver, false)
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("retry: got %v, want ErrDuplicateSubmission", err)
	}

	got, _ := svc.Get(context.Background(), chain.ID)
	if len(got.Bids) != 2 {
		t.Errorf("bids = %d, want 2 (no phantom round)", len(got.Bids))
	}
	if got.CurrentRound != 1 {
		t.Errorf("round = %d, want 1", got.CurrentRound)
	}
}

func TestSubmitCounterOffer_CannotCounterOwnOffer(t *testing.T) {
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)

	_, err := counter(svc, chain.ID, 11000, ActorRider, false)
	if !errors.Is(err, ErrInvalidActor) {
		t.Fatalf("self-counter: got %v, want ErrInvalidActor", err)
	}
}

func TestAccept_OwnBidRejected(t *testing.T) {
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)

	_, err := svc.Accept(context.Background(), AcceptCommand{
		ChainID: chain.ID,
		BidID:   chain.Bids[0].ID,
		Actor:   ActorRider,
	})
	if !errors.Is(err, ErrInvalidActor) {
		t.Fatalf("self-accept: got %v, want ErrInvalidActor", err)
	}
}

func TestAccept_UnknownBid(t *testing.T) {
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)

	_, err := svc.Accept(context.Background(), AcceptCommand{
		ChainID: chain.ID,
		BidID:   "no-such-bid",
		Actor:   ActorDriver,
	})
	if !errors.Is(err, ErrBidNotFound) {
		t.Fatalf("unknown bid: got %v, want ErrBidNotFound", err)
	}
}

func TestAccept_SettlesAndFreezesChain(t *testing.T) {
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)
	ctx := context.Background()

	settled, err := svc.Accept(ctx, AcceptCommand{ChainID: chain.ID, BidID: chain.Bids[0].ID, Actor: ActorDriver})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if settled.Status != StatusAccepted {
		t.Errorf("status = %s, want accepted", settled.Status)
	}
	if settled.AgreedAmount == nil || settled.AgreedAmount.Amount != 10000 {
		t.Errorf("agreed amount = %v, want 10000", settled.AgreedAmount)
	}

	if _, err := counter(svc, chain.ID, 9000, ActorDriver, false); !errors.Is(err, ErrChainClosed) {
		t.Errorf("counter after accept: got %v, want ErrChainClosed", err)
	}
	if _, err := svc.Reject(ctx, RejectCommand{ChainID: chain.ID, Actor: ActorRider}); !errors.Is(err, ErrChainClosed) {
		t.Errorf("reject after accept: got %v, want ErrChainClosed", err)
	}
}

func TestReject_ClosesChain(t *testing.T) {
	svc := newTestService()
	chain := mustOpen(t, svc, 10000, ActorRider)

	rejected, err := svc.Reject(context.Background(), RejectCommand{ChainID: chain.ID, Actor: ActorDriver})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if _, err := counter(svc, chain.ID, 9000, ActorDriver, false); !errors.Is(err, ErrChainClosed) {
		t.Errorf("counter after reject: got %v, want ErrChainClosed", err)
	}
}

// staleStore hands out chains with an outdated version to force the
// optimistic-concurrency failure path.
type staleStore struct {
	*MemoryStore
}

func (s *staleStore) GetChain(ctx context.Context, id types.ID) (*Chain, error) {
	c, err := s.MemoryStore.GetChain(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Version--
	return c, nil
}

func TestSubmitCounterOffer_StaleState(t *testing.T) {
	mem := NewMemoryStore()
	svc := NewService(&staleStore{mem}, nil, DefaultMaxRounds, nil)

	chain, err := svc.Open(context.Background(), OpenCommand{RideID: "ride-1", Amount: types.USD(10000), Actor: ActorRider})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = counter(svc, chain.ID, 9000, ActorDriver, false)
	if !errors.Is(err, ErrStaleState) {
		t.Fatalf("got %v, want ErrStaleState", err)
	}
}

func TestOpen_Validation(t *testing.T) {
	svc := newTestService()
	bad := []OpenCommand{
		{RideID: "", Amount: types.USD(10000), Actor: ActorRider},
		{RideID: "r", Amount: types.USD(0), Actor: ActorRider},
		{RideID: "r", Amount: types.USD(10000), Actor: Actor("dispatcher")},
	}
	for _, cmd := range bad {
		if _, err := svc.Open(context.Background(), cmd); !errors.Is(err, ErrBadRequest) {
			t.Errorf("Open(%+v): got %v, want ErrBadRequest", cmd, err)
		}
	}
}

func TestChainBounds_Rounding(t *testing.T) {
	// An odd anchor amount must round the band half up, in cents.
	c := &Chain{OriginalAmount: types.USD(10001)}
	min, max := c.Bounds()
	if min.Amount != 7001 { // 7000.7 rounds to 7001
		t.Errorf("min = %d, want 7001", min.Amount)
	}
	if max.Amount != 13001 { // 13001.3 rounds to 13001
		t.Errorf("max = %d, want 13001", max.Amount)
	}
}
