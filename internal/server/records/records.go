// Package records persists the gateway's authoritative copy of anchored
// records. After a successful sync this copy, not the device's, backs
// server-side queries and idempotent re-submission.
package records

import (
	"context"

	"github.com/rbagirov/medsync/internal/model"
)

// Repository stores the gateway's record copies.
type Repository interface {
	// Save inserts or replaces a record by id.
	Save(ctx context.Context, r *model.Record) error

	// Get returns the record with the given id, or common.ErrNotFound.
	Get(ctx context.Context, id string) (*model.Record, error)
}
