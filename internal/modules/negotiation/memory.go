// README: In-memory chain store for tests and DB-less development.
package negotiation

import (
	"context"
	"sync"

	"medride/internal/types"
)

// MemoryStore implements Store with the same optimistic-version semantics
// as the Postgres store, so engine tests exercise the real conflict paths.
type MemoryStore struct {
	mu     sync.RWMutex
	chains map[types.ID]*Chain
	byRide map[types.ID]types.ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chains: make(map[types.ID]*Chain),
		byRide: make(map[types.ID]types.ID),
	}
}

func (m *MemoryStore) CreateChain(_ context.Context, c *Chain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chains[c.ID] = cloneChain(c)
	m.byRide[c.RideID] = c.ID
	return nil
}

func (m *MemoryStore) GetChain(_ context.Context, id types.ID) (*Chain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chains[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneChain(c), nil
}

func (m *MemoryStore) GetChainByRide(_ context.Context, rideID types.ID) (*Chain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byRide[rideID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneChain(m.chains[id]), nil
}

func (m *MemoryStore) AppendBid(_ context.Context, chainID types.ID, bid Bid, status Status, round int, expectVersion int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chains[chainID]
	if !ok {
		return false, ErrNotFound
	}
	if c.Version != expectVersion {
		return false, nil
	}
	c.Bids = append(c.Bids, bid)
	c.Status = status
	c.CurrentRound = round
	c.Version++
	c.UpdatedAt = bid.CreatedAt
	return true, nil
}

func (m *MemoryStore) SetStatus(_ context.Context, chainID types.ID, status Status, agreed *types.Money, expectVersion int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chains[chainID]
	if !ok {
		return false, ErrNotFound
	}
	if c.Version != expectVersion {
		return false, nil
	}
	c.Status = status
	if agreed != nil {
		a := *agreed
		c.AgreedAmount = &a
	}
	c.Version++
	return true, nil
}

func cloneChain(c *Chain) *Chain {
	out := *c
	out.Bids = make([]Bid, len(c.Bids))
	copy(out.Bids, c.Bids)
	if c.AgreedAmount != nil {
		a := *c.AgreedAmount
		out.AgreedAmount = &a
	}
	return &out
}
