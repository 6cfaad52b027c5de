// Package queue implements the client-side queue manager: it creates
// records, hashes and encrypts their content, tracks sync status in the
// local durable store and drives the batch synchronization protocol.
package queue

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rbagirov/medsync/internal/client/store"
	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/cryptox"
	"github.com/rbagirov/medsync/internal/logging"
	"github.com/rbagirov/medsync/internal/model"
)

// Encryptor turns plaintext logical content into the opaque payload blob.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
}

// Signer produces the author's provenance proof over an integrity hash.
type Signer interface {
	Sign(recordHash string) (string, error)
}

// Transport is the sync wire contract the manager drives. One attempt per
// call; the manager's repeated invocations are the retry mechanism.
type Transport interface {
	UploadBatch(ctx context.Context, records []*model.Record) ([]model.RecordReceipt, error)
	Verify(ctx context.Context, recordHash string) (*model.VerifyResult, error)
}

// SyncOutcome summarizes one syncNow round. Err is set on transport
// failure, in which case no local state was modified.
type SyncOutcome struct {
	Success   bool
	Attempted int
	Accepted  int
	Rejected  int
	Err       error
}

// Manager owns the device's local record collection. All mutating
// operations share one mutex, so a sync round always works on a consistent
// snapshot and a record created during an in-flight sync is simply picked
// up by the next round.
type Manager struct {
	mu        sync.Mutex
	repo      store.Repository
	transport Transport
	enc       Encryptor
	signer    Signer
	authorID  string
	originID  string
	logger    logging.Logger
	now       func() time.Time
}

// NewManager wires a Manager from its collaborators. authorID and originID
// become the immutable provenance fields of every record this device creates.
func NewManager(repo store.Repository, tr Transport, enc Encryptor, signer Signer, authorID, originID string, logger logging.Logger) *Manager {
	return &Manager{
		repo:      repo,
		transport: tr,
		enc:       enc,
		signer:    signer,
		authorID:  authorID,
		originID:  originID,
		logger:    logger.With("module", "queue"),
		now:       time.Now,
	}
}

// CreateRecord builds a new PENDING record from the subject id and the
// unencrypted logical content, persists it and returns it. The integrity
// hash is computed over the plaintext before encryption, so it is stable
// regardless of encryption nondeterminism.
func (m *Manager) CreateRecord(ctx context.Context, subjectID, logicalContent string) (*model.Record, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("%w: empty subject id", common.ErrValidation)
	}
	if logicalContent == "" {
		return nil, fmt.Errorf("%w: empty content", common.ErrValidation)
	}

	hash := cryptox.DigestHex([]byte(logicalContent))

	blob, err := m.enc.Encrypt([]byte(logicalContent))
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	sig, err := m.signer.Sign(hash)
	if err != nil {
		return nil, fmt.Errorf("signing error: %w", err)
	}

	rec := &model.Record{
		ID:            uuid.NewString(),
		SubjectID:     subjectID,
		AuthorID:      m.authorID,
		OriginID:      m.originID,
		CreatedAt:     m.now().UnixMilli(),
		Payload:       base64.StdEncoding.EncodeToString(blob),
		IntegrityHash: hash,
		Signature:     sig,
		Status:        model.StatusPending,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.repo.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	m.logger.Info(ctx, "record created", "record_id", rec.ID)
	return rec, nil
}

// Records returns a consistent snapshot of the device's full collection.
func (m *Manager) Records(ctx context.Context) ([]*model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.repo.GetAll(ctx)
}

// PendingCount returns the number of records not yet synced. Safe to poll
// at any cadence.
func (m *Manager) PendingCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.repo.CountByStatus(ctx, model.StatusPending)
}

// SyncNow sends all PENDING records to the gateway in one batch and applies
// the per-record receipts. With no pending records it succeeds without a
// network call. On transport failure nothing is modified locally and every
// record stays PENDING, so calling again later is always safe. Partial
// acknowledgment updates only the accepted subset.
func (m *Manager) SyncNow(ctx context.Context) SyncOutcome {
	m.mu.Lock()
	pending, err := m.repo.GetByStatus(ctx, model.StatusPending)
	m.mu.Unlock()
	if err != nil {
		return SyncOutcome{Err: fmt.Errorf("failed to collect pending records: %w", err)}
	}

	if len(pending) == 0 {
		return SyncOutcome{Success: true}
	}

	// network attempt happens outside the lock: a record created while the
	// batch is in flight is excluded from this round, nothing more
	receipts, err := m.transport.UploadBatch(ctx, pending)
	if err != nil {
		m.logger.Warn(ctx, "sync failed, records kept locally", "pending", len(pending), "error", err.Error())
		return SyncOutcome{Attempted: len(pending), Err: err}
	}

	accepted := make(map[string]model.RecordReceipt, len(receipts))
	rejected := 0
	for _, rc := range receipts {
		if rc.Outcome == model.OutcomeAccepted {
			accepted[rc.RecordID] = rc
		} else {
			rejected++
			m.logger.Warn(ctx, "record rejected by gateway", "record_id", rc.RecordID, "reason", rc.Reason)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.applyReceipts(ctx, accepted); err != nil {
		return SyncOutcome{Attempted: len(pending), Err: err}
	}

	out := SyncOutcome{
		Success:   rejected == 0,
		Attempted: len(pending),
		Accepted:  len(accepted),
		Rejected:  rejected,
	}
	m.logger.Info(ctx, "sync round complete", "attempted", out.Attempted, "accepted", out.Accepted, "rejected", out.Rejected)
	return out
}

// applyReceipts rewrites the whole collection with the accepted records
// promoted to SYNCED. Must be called with m.mu held.
func (m *Manager) applyReceipts(ctx context.Context, accepted map[string]model.RecordReceipt) error {
	all, err := m.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	for _, rec := range all {
		rc, ok := accepted[rec.ID]
		if !ok {
			continue
		}
		if !rec.Status.CanTransitionTo(model.StatusSynced) {
			return fmt.Errorf("%w: %s -> %s for record %s", common.ErrStatusRegression, rec.Status, model.StatusSynced, rec.ID)
		}
		rec.Status = model.StatusSynced
		rec.ContentRef = rc.ContentRef
		rec.LedgerRef = rc.LedgerRef
	}

	if err := m.repo.ReplaceAll(ctx, all); err != nil {
		return fmt.Errorf("failed to store sync results: %w", err)
	}
	return nil
}

// VerifySynced asks the gateway's public verification endpoint about every
// SYNCED record and promotes confirmed ones to VERIFIED. Returns how many
// records were promoted. A transport failure stops the pass and reports the
// error; promotions already applied stand.
func (m *Manager) VerifySynced(ctx context.Context) (int, error) {
	m.mu.Lock()
	synced, err := m.repo.GetByStatus(ctx, model.StatusSynced)
	m.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("failed to collect synced records: %w", err)
	}

	verified := 0
	for _, rec := range synced {
		vr, err := m.transport.Verify(ctx, rec.IntegrityHash)
		if err != nil {
			return verified, err
		}
		if !vr.Valid {
			continue
		}

		upd := rec.Clone()
		upd.Status = model.StatusVerified

		m.mu.Lock()
		err = m.repo.Put(ctx, upd)
		m.mu.Unlock()
		if err != nil {
			return verified, fmt.Errorf("failed to store verified status: %w", err)
		}
		verified++
	}

	if verified > 0 {
		m.logger.Info(ctx, "records verified against ledger", "count", verified)
	}
	return verified, nil
}
