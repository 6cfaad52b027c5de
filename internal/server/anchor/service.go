// Package anchor implements the gateway's anchoring pipeline: validate each
// incoming record, store its canonical form in the content store, append an
// anchoring entry to the ledger and issue a per-record receipt.
package anchor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/cryptox"
	"github.com/rbagirov/medsync/internal/logging"
	"github.com/rbagirov/medsync/internal/model"
	"github.com/rbagirov/medsync/internal/server/contentstore"
	"github.com/rbagirov/medsync/internal/server/ledger"
	"github.com/rbagirov/medsync/internal/server/records"
)

// Service anchors record batches. Records within a batch are processed
// independently: one record's failure never aborts its siblings. Different
// batches from different devices may run concurrently; the stores provide
// their own synchronization.
type Service struct {
	content  contentstore.ContentStore
	ledger   ledger.Ledger
	records  records.Repository
	attestor Attestor
	logger   logging.Logger
	now      func() time.Time
}

// NewService wires the anchoring pipeline from its collaborators.
func NewService(cs contentstore.ContentStore, l ledger.Ledger, rr records.Repository, at Attestor, logger logging.Logger) *Service {
	return &Service{
		content:  cs,
		ledger:   l,
		records:  rr,
		attestor: at,
		logger:   logger.With("module", "anchor"),
		now:      time.Now,
	}
}

// AnchorBatch processes every record of a batch and returns one receipt per
// record, in batch order.
func (s *Service) AnchorBatch(ctx context.Context, batch []*model.Record) []model.RecordReceipt {
	receipts := make([]model.RecordReceipt, 0, len(batch))
	for _, rec := range batch {
		receipts = append(receipts, s.anchorOne(ctx, rec))
	}
	return receipts
}

// anchorOne runs the per-record pipeline: validate, dedup, content store,
// ledger, gateway copy.
//
// Re-submitting an already-anchored record (a client retry after a lost
// response) returns the previously assigned refs instead of producing a
// second ledger entry: anchoring is deduplicated on the stored gateway copy
// first and on a ledger hash lookup second.
func (s *Service) anchorOne(ctx context.Context, rec *model.Record) model.RecordReceipt {
	if err := rec.Validate(); err != nil {
		s.logger.Warn(ctx, "record rejected", "record_id", rec.ID, "error", err.Error())
		return model.RecordReceipt{
			RecordID: rec.ID,
			Outcome:  model.OutcomeRejected,
			Reason:   model.ReasonInvalidRecord,
		}
	}

	// retry of a batch whose response was lost: the record is already here
	if stored, err := s.records.Get(ctx, rec.ID); err == nil && stored.ContentRef != "" && stored.LedgerRef != "" {
		s.logger.Info(ctx, "duplicate submission, returning stored refs", "record_id", rec.ID)
		return model.RecordReceipt{
			RecordID:   rec.ID,
			Outcome:    model.OutcomeAccepted,
			ContentRef: stored.ContentRef,
			LedgerRef:  stored.LedgerRef,
		}
	}

	contentRef, err := s.content.Put(ctx, canonicalBytes(rec))
	if err != nil {
		s.logger.Error(ctx, "content store put failed", "record_id", rec.ID, "error", err.Error())
		return model.RecordReceipt{
			RecordID: rec.ID,
			Outcome:  model.OutcomeRejected,
			Reason:   model.ReasonAnchorFailed,
		}
	}

	ledgerRef, err := s.appendOnce(ctx, rec)
	if err != nil {
		s.logger.Error(ctx, "ledger append failed", "record_id", rec.ID, "error", err.Error())
		return model.RecordReceipt{
			RecordID: rec.ID,
			Outcome:  model.OutcomeRejected,
			Reason:   model.ReasonAnchorFailed,
		}
	}

	anchored := rec.Clone()
	anchored.Status = model.StatusSynced
	anchored.ContentRef = contentRef
	anchored.LedgerRef = ledgerRef
	if err := s.records.Save(ctx, anchored); err != nil {
		// the ledger entry exists; the receipt still acknowledges anchoring
		s.logger.Error(ctx, "failed to save gateway record copy", "record_id", rec.ID, "error", err.Error())
	}

	s.logger.Info(ctx, "record anchored", "record_id", rec.ID, "ledger_ref", ledgerRef)
	return model.RecordReceipt{
		RecordID:   rec.ID,
		Outcome:    model.OutcomeAccepted,
		ContentRef: contentRef,
		LedgerRef:  ledgerRef,
	}
}

// appendOnce appends a ledger entry for rec unless one already exists for
// its integrity hash, in which case the existing entry's ref is reused.
func (s *Service) appendOnce(ctx context.Context, rec *model.Record) (string, error) {
	existing, err := s.ledger.FindByHash(ctx, rec.IntegrityHash)
	if err == nil {
		return existing.LedgerRef, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return "", fmt.Errorf("failed to check ledger: %w", err)
	}

	attSig, err := s.attestor.Sign(rec.IntegrityHash)
	if err != nil {
		return "", fmt.Errorf("failed to sign attestation: %w", err)
	}

	entry := &model.LedgerEntry{
		RecordHash:        rec.IntegrityHash,
		SubjectHash:       cryptox.SubjectHash(rec.SubjectID),
		AnchoredAt:        s.now().UnixMilli(),
		AttestorSignature: attSig,
	}
	return s.ledger.Append(ctx, entry)
}

// VerifyHash answers the public verification query: does at least one
// ledger entry exist for recordHash? Pure read, no state changes.
func (s *Service) VerifyHash(ctx context.Context, recordHash string) (*model.VerifyResult, error) {
	entry, err := s.ledger.FindByHash(ctx, recordHash)
	if errors.Is(err, common.ErrNotFound) {
		return &model.VerifyResult{Valid: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	return &model.VerifyResult{Valid: true, Timestamp: entry.AnchoredAt}, nil
}

// canonicalBytes serializes the immutable part of a record for the content
// store. Mutable sync metadata is excluded so the serialization, and with
// it the content reference, is deterministic across re-submissions.
func canonicalBytes(rec *model.Record) []byte {
	canonical := struct {
		ID            string `json:"recordId"`
		SubjectID     string `json:"patientId"`
		AuthorID      string `json:"doctorId"`
		OriginID      string `json:"clinicId"`
		CreatedAt     int64  `json:"timestamp"`
		Payload       string `json:"encryptedDataBlob"`
		IntegrityHash string `json:"dataHash"`
		Signature     string `json:"signature"`
	}{
		ID:            rec.ID,
		SubjectID:     rec.SubjectID,
		AuthorID:      rec.AuthorID,
		OriginID:      rec.OriginID,
		CreatedAt:     rec.CreatedAt,
		Payload:       rec.Payload,
		IntegrityHash: rec.IntegrityHash,
		Signature:     rec.Signature,
	}
	data, _ := json.Marshal(canonical)
	return data
}
