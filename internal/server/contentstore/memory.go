package contentstore

import (
	"context"
	"sync"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/cryptox"
)

// MemoryStore is an in-process ContentStore used in dev mode and tests.
// Keys are content digests, same as the S3 implementation.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, data []byte) (string, error) {
	key := cryptox.DigestHex(data)

	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = cp
	return key, nil
}

func (s *MemoryStore) Get(ctx context.Context, contentRef string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[contentRef]
	if !ok {
		return nil, common.ErrNotFound
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Len reports the number of stored blobs. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
