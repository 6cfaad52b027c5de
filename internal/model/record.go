// Package model holds the record types exchanged between field clients and
// the anchoring gateway, plus the wire shapes of the sync protocol.
package model

import (
	"encoding/hex"
	"fmt"
)

// SyncStatus tracks how far a record has progressed through anchoring.
//
//   - PENDING: stored locally, not yet synced.
//   - SYNCED: accepted by the gateway, anchored to the content store and ledger.
//   - VERIFIED: anchoring independently confirmed against the ledger.
type SyncStatus string

const (
	StatusPending  SyncStatus = "PENDING"
	StatusSynced   SyncStatus = "SYNCED"
	StatusVerified SyncStatus = "VERIFIED"
)

// Valid reports whether s is one of the known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSynced, StatusVerified:
		return true
	}
	return false
}

// Rank orders statuses along the record lifecycle. Higher never goes back
// to lower.
func (s SyncStatus) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusSynced:
		return 1
	case StatusVerified:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next keeps the status
// monotonically non-decreasing.
func (s SyncStatus) CanTransitionTo(next SyncStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.Rank() >= s.Rank()
}

// Record is the immutable unit of offline-captured data. Everything except
// Status, ContentRef and LedgerRef is fixed at creation time on the client.
// The payload is an opaque encrypted blob; IntegrityHash is computed over
// the unencrypted logical content so it is stable across re-encryption.
type Record struct {
	ID            string     `json:"recordId"`
	SubjectID     string     `json:"patientId"`
	AuthorID      string     `json:"doctorId"`
	OriginID      string     `json:"clinicId"`
	CreatedAt     int64      `json:"timestamp"` // unix milliseconds, client-authoritative
	Payload       string     `json:"encryptedDataBlob"`
	IntegrityHash string     `json:"dataHash"`
	Signature     string     `json:"signature"`
	Status        SyncStatus `json:"status"`
	ContentRef    string     `json:"contentRef,omitempty"`
	LedgerRef     string     `json:"ledgerRef,omitempty"`
}

// Validate checks that all required fields are present and that the
// integrity hash is a well-formed SHA-256 hex digest.
func (r *Record) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("missing recordId")
	case r.SubjectID == "":
		return fmt.Errorf("missing patientId")
	case r.AuthorID == "":
		return fmt.Errorf("missing doctorId")
	case r.OriginID == "":
		return fmt.Errorf("missing clinicId")
	case r.CreatedAt <= 0:
		return fmt.Errorf("missing timestamp")
	case r.Payload == "":
		return fmt.Errorf("missing encryptedDataBlob")
	case r.Signature == "":
		return fmt.Errorf("missing signature")
	}
	if len(r.IntegrityHash) != 64 {
		return fmt.Errorf("dataHash must be a 64-char hex digest")
	}
	if _, err := hex.DecodeString(r.IntegrityHash); err != nil {
		return fmt.Errorf("dataHash is not valid hex: %w", err)
	}
	return nil
}

// Clone returns a copy of r so callers can mutate sync metadata without
// aliasing the stored instance.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// ReceiptOutcome is the per-record result of a batch upload.
type ReceiptOutcome string

const (
	OutcomeAccepted ReceiptOutcome = "ACCEPTED"
	OutcomeRejected ReceiptOutcome = "REJECTED"
)

// Rejection reasons carried in RecordReceipt.Reason.
const (
	ReasonInvalidRecord = "INVALID_RECORD"
	ReasonAnchorFailed  = "ANCHOR_FAILED"
)

// RecordReceipt reports the gateway's decision for a single record in a
// batch. ContentRef and LedgerRef are set only on ACCEPTED receipts.
type RecordReceipt struct {
	RecordID   string         `json:"recordId"`
	Outcome    ReceiptOutcome `json:"outcome"`
	ContentRef string         `json:"contentRef,omitempty"`
	LedgerRef  string         `json:"ledgerRef,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// SyncResponse is the body of the gateway's reply to a batch upload.
// Success is true only when every record in the batch was accepted;
// callers must still inspect Results for partial acknowledgment.
type SyncResponse struct {
	Success bool            `json:"success"`
	Results []RecordReceipt `json:"results"`
}

// LedgerEntry is the append-only anchoring proof. SubjectHash is a one-way
// hash of the subject id; the raw id never reaches the ledger.
type LedgerEntry struct {
	RecordHash        string `json:"recordHash"`
	SubjectHash       string `json:"subjectHash"`
	AnchoredAt        int64  `json:"anchoredAt"` // unix milliseconds
	AttestorSignature string `json:"attestorSignature"`
	LedgerRef         string `json:"ledgerRef,omitempty"` // assigned at append
}

// VerifyResult is the reply of the public verification endpoint.
type VerifyResult struct {
	Valid     bool  `json:"valid"`
	Timestamp int64 `json:"timestamp,omitempty"`
}
