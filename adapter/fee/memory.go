package fee

import (
	"context"
	"sync"
)

// MemoryStore keeps the fee in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	fee UsageFee
}

func NewMemoryStore(initial UsageFee) *MemoryStore {
	return &MemoryStore{fee: initial}
}

func (s *MemoryStore) Load(_ context.Context) (UsageFee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fee, nil
}

func (s *MemoryStore) Save(_ context.Context, fee UsageFee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fee = fee
	log.Debug().Str("share", fee.Share.String()).Str("recipient", fee.Recipient).Msg("Saved usage fee")
	return nil
}

func (s *MemoryStore) Close() error { return nil }
