package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestHex_DeterministicAndWellFormed(t *testing.T) {
	h1 := DigestHex([]byte("flu diagnosis"))
	h2 := DigestHex([]byte("flu diagnosis"))
	h3 := DigestHex([]byte("broken arm"))

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestSubjectHash_NeverEchoesRawID(t *testing.T) {
	h := SubjectHash("p1")
	assert.NotContains(t, h, "p1")
	assert.Equal(t, h, SubjectHash("p1"))
}

func TestDeriveKey_Is32Bytes(t *testing.T) {
	k := DeriveKey([]byte("passphrase"), []byte("salt"))
	assert.Len(t, k, 32)
	assert.Equal(t, k, DeriveKey([]byte("passphrase"), []byte("salt")))
	assert.NotEqual(t, k, DeriveKey([]byte("passphrase"), []byte("other")))
}

func TestAESGCMEncryptor_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	enc := NewAESGCMEncryptor(key)

	plaintext := []byte(`{"diagnosis":"flu"}`)
	blob, err := enc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, blob)

	got, err := enc.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESGCMEncryptor_DecryptRejectsTampering(t *testing.T) {
	enc := NewAESGCMEncryptor(DeriveKey([]byte("pw"), []byte("salt")))

	blob, err := enc.Encrypt([]byte("data"))
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xff
	_, err = enc.Decrypt(blob)
	assert.Error(t, err)
}

func TestAESGCMEncryptor_DecryptRejectsShortInput(t *testing.T) {
	enc := NewAESGCMEncryptor(DeriveKey([]byte("pw"), []byte("salt")))
	_, err := enc.Decrypt([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestHMACSigner_SignVerify(t *testing.T) {
	s := NewHMACSigner([]byte("author-key"))

	sig, err := s.Sign("abc123")
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	assert.True(t, s.Verify("abc123", sig))
	assert.False(t, s.Verify("abc124", sig))
	assert.False(t, NewHMACSigner([]byte("other-key")).Verify("abc123", sig))
}
