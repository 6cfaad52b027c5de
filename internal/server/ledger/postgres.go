package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/dbx"
	"github.com/rbagirov/medsync/internal/model"
)

// PostgresLedger implements Ledger over a dbx.DBTX (*sql.DB or *sql.Tx).
// The ledger reference is the entry's sequence id formatted as "seq-N".
type PostgresLedger struct {
	db dbx.DBTX
}

// NewPostgresLedger constructs a ledger bound to the given DBTX.
func NewPostgresLedger(db dbx.DBTX) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) Append(ctx context.Context, entry *model.LedgerEntry) (string, error) {
	query := `
		INSERT INTO ledger_entries (record_hash, subject_hash, anchored_at, attestor_signature)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	var id int64
	err := l.db.QueryRowContext(ctx, query,
		entry.RecordHash, entry.SubjectHash, entry.AnchoredAt, entry.AttestorSignature).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return fmt.Sprintf("seq-%d", id), nil
}

func (l *PostgresLedger) FindByHash(ctx context.Context, recordHash string) (*model.LedgerEntry, error) {
	query := `
		SELECT id, record_hash, subject_hash, anchored_at, attestor_signature
		FROM ledger_entries WHERE record_hash = $1 ORDER BY id LIMIT 1;
	`
	var id int64
	var entry model.LedgerEntry
	err := l.db.QueryRowContext(ctx, query, recordHash).Scan(
		&id, &entry.RecordHash, &entry.SubjectHash, &entry.AnchoredAt, &entry.AttestorSignature)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select ledger entry: %w", err)
	}
	entry.LedgerRef = fmt.Sprintf("seq-%d", id)
	return &entry, nil
}
