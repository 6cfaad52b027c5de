package records

import (
	"context"
	"sync"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/model"
)

// MemoryRepository is an in-process Repository used in dev mode and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]model.Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]model.Record)}
}

func (r *MemoryRepository) Save(ctx context.Context, rec *model.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = *rec
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &rec, nil
}
