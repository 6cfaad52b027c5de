package httpapi

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rbagirov/medsync/internal/client/queue"
	"github.com/rbagirov/medsync/internal/client/store"
	"github.com/rbagirov/medsync/internal/client/transport"
	"github.com/rbagirov/medsync/internal/cryptox"
	"github.com/rbagirov/medsync/internal/logging"
	"github.com/rbagirov/medsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// Full client-to-gateway round trip over real HTTP: create a record, sync
// it, confirm it against the ledger through the public endpoint.
func TestClientGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := setupTestServer(t)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`
CREATE TABLE records (
  id TEXT PRIMARY KEY, patient_id TEXT NOT NULL, doctor_id TEXT NOT NULL,
  clinic_id TEXT NOT NULL, created_at INTEGER NOT NULL, payload TEXT NOT NULL,
  data_hash TEXT NOT NULL, signature TEXT NOT NULL, status TEXT NOT NULL,
  content_ref TEXT NOT NULL DEFAULT '', ledger_ref TEXT NOT NULL DEFAULT ''
);`)
	require.NoError(t, err)

	tr := transport.New(srv.URL, 5*time.Second)
	key := cryptox.DeriveKey([]byte("pw"), []byte("salt"))
	m := queue.NewManager(store.NewSQLiteRepository(db), tr,
		cryptox.NewAESGCMEncryptor(key),
		cryptox.NewHMACSigner([]byte("author-key")),
		"doc1", "clinic1", logging.NewJSON())

	rec, err := m.CreateRecord(ctx, "p1", "flu diagnosis")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.NotEmpty(t, rec.IntegrityHash)

	n, err := m.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := m.SyncNow(ctx)
	require.True(t, out.Success, "sync failed: %v", out.Err)
	assert.Equal(t, 1, out.Accepted)

	n, err = m.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// independent verification through the public endpoint
	vr, err := tr.Verify(ctx, rec.IntegrityHash)
	require.NoError(t, err)
	assert.True(t, vr.Valid)

	// promote SYNCED -> VERIFIED from the client side
	verified, err := m.VerifySynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, verified)

	// a second sync round finds nothing to send and no duplicate anchoring
	out = m.SyncNow(ctx)
	assert.True(t, out.Success)
	assert.Zero(t, out.Attempted)
}
