package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rbagirov/medsync/internal/model"
)

// handleSync receives a JSON array of records, anchors them and replies
// with per-record receipts. Mixed accept/reject batches still answer 200;
// success is true only when every record was accepted.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var batch []*model.Record
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		s.logger.Warn(ctx, "invalid sync request body", "error", err.Error())
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.logger.Info(ctx, "sync batch received", "records", len(batch))

	receipts := s.anchor.AnchorBatch(ctx, batch)

	success := true
	for _, rc := range receipts {
		if rc.Outcome != model.OutcomeAccepted {
			success = false
			break
		}
	}

	writeJSON(w, http.StatusOK, model.SyncResponse{Success: success, Results: receipts})
}

// handleVerify answers whether a ledger entry exists for the record hash in
// the path. Read-only; requires no access to the original device or the
// record's plaintext.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordHash := chi.URLParam(r, "recordHash")

	vr, err := s.anchor.VerifyHash(ctx, recordHash)
	if err != nil {
		s.logger.Error(ctx, "verification query failed", "error", err.Error())
		http.Error(w, "verification failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, vr)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
