package models

import (
	"context"
	"sync"
)

// MemoryStore keeps an encoded copy of the collection in memory, so callers
// never share event pointers with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
	// ReadErr and WriteErr, when set, are returned instead of touching data.
	ReadErr  error
	WriteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) ReadAll(ctx context.Context) (Events, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if ms.ReadErr != nil {
		return nil, ms.ReadErr
	}
	return decodeEvents(ms.data)
}

func (ms *MemoryStore) WriteAll(ctx context.Context, events Events) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeEvents(events)
	if err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.WriteErr != nil {
		return ms.WriteErr
	}
	ms.data = data
	return nil
}
