// Package ledger abstracts the append-only log of anchoring entries. The
// gateway is the only writer; entries are never updated or deleted.
package ledger

import (
	"context"

	"github.com/rbagirov/medsync/internal/model"
)

// Ledger is the append-only-log capability consumed by the anchoring
// pipeline. Append returns the entry's position reference; FindByHash
// returns the earliest entry with the given record hash or
// common.ErrNotFound.
type Ledger interface {
	Append(ctx context.Context, entry *model.LedgerEntry) (string, error)
	FindByHash(ctx context.Context, recordHash string) (*model.LedgerEntry, error)
}
