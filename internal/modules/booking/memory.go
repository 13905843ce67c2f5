// README: In-memory ride store for tests and DB-less development.
package booking

import (
	"context"
	"sync"
	"time"

	"medride/internal/types"
)

type MemoryStore struct {
	mu    sync.RWMutex
	rides map[types.ID]*Ride
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rides: make(map[types.ID]*Ride)}
}

func (m *MemoryStore) CreateRide(_ context.Context, r *Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.rides[r.ID] = &cp
	return nil
}

func (m *MemoryStore) GetRide(_ context.Context, id types.ID) (*Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rides[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int, upd StatusUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return false, ErrNotFound
	}
	if r.Status != from || r.StatusVersion != version {
		return false, nil
	}
	r.Status = to
	r.StatusVersion++
	if upd.ChainID != nil {
		c := *upd.ChainID
		r.ChainID = &c
	}
	if upd.FinalAmount != nil {
		f := *upd.FinalAmount
		r.FinalAmount = &f
	}
	if upd.CancelReason != nil {
		reason := *upd.CancelReason
		r.CancelReason = &reason
	}
	if to == StatusCancelled {
		now := time.Now()
		r.CancelledAt = &now
	}
	return true, nil
}
