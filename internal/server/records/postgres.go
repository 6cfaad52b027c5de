package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/dbx"
	"github.com/rbagirov/medsync/internal/model"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, rec *model.Record) error {
	query := `
		INSERT INTO records (id, patient_id, doctor_id, clinic_id, created_at, payload, data_hash, signature, status, content_ref, ledger_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id)
		DO UPDATE SET
			status = EXCLUDED.status,
			content_ref = EXCLUDED.content_ref,
			ledger_ref = EXCLUDED.ledger_ref;
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.SubjectID, rec.AuthorID, rec.OriginID, rec.CreatedAt,
		rec.Payload, rec.IntegrityHash, rec.Signature, string(rec.Status),
		rec.ContentRef, rec.LedgerRef)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*model.Record, error) {
	query := `
		SELECT id, patient_id, doctor_id, clinic_id, created_at, payload, data_hash, signature, status, content_ref, ledger_ref
		FROM records WHERE id = $1;
	`
	var rec model.Record
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.SubjectID, &rec.AuthorID, &rec.OriginID, &rec.CreatedAt,
		&rec.Payload, &rec.IntegrityHash, &rec.Signature, &status,
		&rec.ContentRef, &rec.LedgerRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	rec.Status = model.SyncStatus(status)
	return &rec, nil
}
