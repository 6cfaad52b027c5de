package store

import (
	"context"

	"github.com/rbagirov/medsync/internal/model"
)

// Repository is the client's durable record store. Every record whose Put
// returned successfully must survive a process restart unchanged.
type Repository interface {
	// Put inserts or replaces a record by id.
	Put(ctx context.Context, r *model.Record) error

	// Get returns the record with the given id, or common.ErrNotFound.
	Get(ctx context.Context, id string) (*model.Record, error)

	// GetAll returns every stored record.
	GetAll(ctx context.Context) ([]*model.Record, error)

	// GetByStatus returns all records currently in the given status.
	GetByStatus(ctx context.Context, status model.SyncStatus) ([]*model.Record, error)

	// CountByStatus counts records in the given status without loading them.
	CountByStatus(ctx context.Context, status model.SyncStatus) (int, error)

	// ReplaceAll atomically overwrites the whole collection. Readers never
	// observe a partially written state.
	ReplaceAll(ctx context.Context, records []*model.Record) error
}
