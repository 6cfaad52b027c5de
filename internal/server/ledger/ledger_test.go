package ledger

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(hash string) *model.LedgerEntry {
	return &model.LedgerEntry{
		RecordHash:        hash,
		SubjectHash:       strings.Repeat("cd", 32),
		AnchoredAt:        1700000000000,
		AttestorSignature: "att-sig",
	}
}

func TestMemoryLedger_AppendAndFind(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	hash := strings.Repeat("ab", 32)

	ref, err := l.Append(ctx, entry(hash))
	require.NoError(t, err)
	assert.Equal(t, "seq-1", ref)

	got, err := l.FindByHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, hash, got.RecordHash)
	assert.Equal(t, "seq-1", got.LedgerRef)

	_, err = l.FindByHash(ctx, strings.Repeat("ef", 32))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryLedger_DuplicatesRepresentable(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	hash := strings.Repeat("ab", 32)

	ref1, err := l.Append(ctx, entry(hash))
	require.NoError(t, err)
	ref2, err := l.Append(ctx, entry(hash))
	require.NoError(t, err)
	assert.NotEqual(t, ref1, ref2)
	assert.Equal(t, 2, l.Len())

	// FindByHash returns the earliest entry
	got, err := l.FindByHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, ref1, got.LedgerRef)
}

func TestPostgresLedger_Append(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	hash := strings.Repeat("ab", 32)
	q := regexp.MustCompile(`INSERT INTO ledger_entries .* RETURNING id;`)
	mock.ExpectQuery(q.String()).
		WithArgs(hash, strings.Repeat("cd", 32), int64(1700000000000), "att-sig").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	ref, err := NewPostgresLedger(db).Append(context.Background(), entry(hash))
	require.NoError(t, err)
	assert.Equal(t, "seq-7", ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_FindByHash_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	hash := strings.Repeat("ab", 32)
	q := regexp.MustCompile(`SELECT .* FROM ledger_entries WHERE record_hash = \$1 ORDER BY id LIMIT 1;`)
	mock.ExpectQuery(q.String()).WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"id", "record_hash", "subject_hash", "anchored_at", "attestor_signature"}))

	_, err = NewPostgresLedger(db).FindByHash(context.Background(), hash)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
