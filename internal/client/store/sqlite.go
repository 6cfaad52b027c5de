// Package store persists the field client's records in a local SQLite
// database. SQLite is the durability boundary: once Put commits, the record
// survives abrupt restarts of the client process.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/dbx"
	"github.com/rbagirov/medsync/internal/model"
)

// SQLiteRepository implements Repository over a *sql.DB opened with the
// modernc.org/sqlite driver.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository bound to the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const recordColumns = `id, patient_id, doctor_id, clinic_id, created_at, payload, data_hash, signature, status, content_ref, ledger_ref`

func (r *SQLiteRepository) Put(ctx context.Context, rec *model.Record) error {
	query := ` INSERT INTO records (` + recordColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET status = excluded.status,
				content_ref = excluded.content_ref,
				ledger_ref = excluded.ledger_ref
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

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY created_at`
	return r.selectRecords(ctx, query)
}

func (r *SQLiteRepository) GetByStatus(ctx context.Context, status model.SyncStatus) ([]*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE status = ? ORDER BY created_at`
	return r.selectRecords(ctx, query, string(status))
}

func (r *SQLiteRepository) CountByStatus(ctx context.Context, status model.SyncStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE status = ?`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// ReplaceAll rewrites the whole collection in one transaction, so a
// concurrent reader sees either the old collection or the new one.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []*model.Record) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		query := `INSERT INTO records (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		for _, rec := range records {
			_, err := tx.ExecContext(ctx, query,
				rec.ID, rec.SubjectID, rec.AuthorID, rec.OriginID, rec.CreatedAt,
				rec.Payload, rec.IntegrityHash, rec.Signature, string(rec.Status),
				rec.ContentRef, rec.LedgerRef)
			if err != nil {
				return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.Record, error) {
	var rec model.Record
	var status string
	if err := row.Scan(
		&rec.ID, &rec.SubjectID, &rec.AuthorID, &rec.OriginID, &rec.CreatedAt,
		&rec.Payload, &rec.IntegrityHash, &rec.Signature, &status,
		&rec.ContentRef, &rec.LedgerRef,
	); err != nil {
		return nil, err
	}
	rec.Status = model.SyncStatus(status)
	return &rec, nil
}

func (r *SQLiteRepository) selectRecords(ctx context.Context, query string, args ...any) ([]*model.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
