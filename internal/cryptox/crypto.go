// Package cryptox supplies the cryptographic primitives the sync core
// consumes as capabilities: content digests, subject-id hashing, payload
// encryption, key derivation and author signatures. The core never depends
// on the concrete algorithms; swap implementations here to change them.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// DigestHex returns the lowercase hex SHA-256 digest of data. Used for
// record integrity hashes and content-addressed storage keys.
func DigestHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SubjectHash returns a one-way hash of a subject identifier. The ledger
// stores only this value, never the raw id.
func SubjectHash(subjectID string) string {
	return DigestHex([]byte(subjectID))
}

// DeriveKey derives a 32-byte AES key from a passphrase using argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// AESGCMEncryptor encrypts record payloads with AES-GCM. A fresh random
// 12-byte nonce is generated per call and prepended to the ciphertext, so
// the output is self-contained.
type AESGCMEncryptor struct {
	key []byte
}

// NewAESGCMEncryptor returns an encryptor for the given AES key
// (16, 24 or 32 bytes).
func NewAESGCMEncryptor(key []byte) *AESGCMEncryptor {
	return &AESGCMEncryptor{key: key}
}

func (e *AESGCMEncryptor) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

func (e *AESGCMEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *AESGCMEncryptor) Decrypt(data []byte) ([]byte, error) {
	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// HMACSigner produces author signatures over record integrity hashes using
// HMAC-SHA256. A production deployment would substitute an asymmetric signer
// backed by the author's private key.
type HMACSigner struct {
	key []byte
}

func NewHMACSigner(key []byte) *HMACSigner {
	return &HMACSigner{key: key}
}

// Sign returns a base64 HMAC over recordHash.
func (s *HMACSigner) Sign(recordHash string) (string, error) {
	mac := hmac.New(sha256.New, s.key)
	if _, err := mac.Write([]byte(recordHash)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether signature is a valid HMAC over recordHash.
func (s *HMACSigner) Verify(recordHash, signature string) bool {
	want, err := s.Sign(recordHash)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(want), []byte(signature))
}
