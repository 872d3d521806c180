package state

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests, examples and the "memory"
// driver. It uses Ref.Identifier() as its key.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	stamper stamper
}

type memoryRecord struct {
	payload []byte
	meta    Meta
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}, stamper: newStamper(opts)}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) ([]byte, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return clonePayload(record.payload), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(ctx context.Context, ref Ref, payload []byte, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}

	stamped := s.stamper.stamp(payload, meta)
	s.mu.Lock()
	s.records[key] = memoryRecord{payload: clonePayload(payload), meta: cloneMeta(stamped)}
	s.mu.Unlock()
	return stamped, nil
}
