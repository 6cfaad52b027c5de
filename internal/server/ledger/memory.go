package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/model"
)

// MemoryLedger is an in-process Ledger used in dev mode and tests.
// Append-only: entries are only ever added to the slice.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries []model.LedgerEntry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Append(ctx context.Context, entry *model.LedgerEntry) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := *entry
	e.LedgerRef = fmt.Sprintf("seq-%d", len(l.entries)+1)
	l.entries = append(l.entries, e)
	return e.LedgerRef, nil
}

func (l *MemoryLedger) FindByHash(ctx context.Context, recordHash string) (*model.LedgerEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.entries {
		if l.entries[i].RecordHash == recordHash {
			e := l.entries[i]
			return &e, nil
		}
	}
	return nil, common.ErrNotFound
}

// Len reports the number of appended entries. Test helper.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
