package contentstore

import (
	"context"
	"testing"

	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ContentAddressedRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	data := []byte("serialized record")
	ref, err := s.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, cryptox.DigestHex(data), ref)

	got, err := s.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestMemoryStore_PutIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ref1, err := s.Put(ctx, []byte("same bytes"))
	require.NoError(t, err)
	ref2, err := s.Put(ctx, []byte("same bytes"))
	require.NoError(t, err)

	assert.Equal(t, ref1, ref2)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_GetUnknownRef(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ref, err := s.Put(ctx, []byte("abc"))
	require.NoError(t, err)

	got, err := s.Get(ctx, ref)
	require.NoError(t, err)
	got[0] = 'x'

	again, err := s.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
