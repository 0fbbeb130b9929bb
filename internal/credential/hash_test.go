package credential

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/pbkdf2"
)

// tests use a low iteration count to stay fast; the scheme is identical
const testIterations = 1000

var testSalt = []byte("test_global_salt")

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(testSalt, testIterations)

	stored := h.Hash([]byte("correct horse"))
	assert.True(t, h.Verify([]byte("correct horse"), stored))
	assert.False(t, h.Verify([]byte("wrong horse"), stored))
}

func TestHasher_HashIsHexDigest(t *testing.T) {
	h := NewHasher(testSalt, testIterations)
	stored := h.Hash([]byte("pw"))

	raw, err := hex.DecodeString(stored)
	assert.NoError(t, err)
	assert.Len(t, raw, sha256.Size)
}

func TestHasher_LegacySaltedForm(t *testing.T) {
	h := NewHasher(testSalt, testIterations)

	// stored value built the way the old schema combined its columns:
	// per-record salt and digest joined with '$'
	salt := []byte{0x01, 0x02, 0x03, 0x04}
	digest := pbkdf2.Key([]byte("old password"), salt, testIterations, sha256.Size, sha256.New)
	stored := hex.EncodeToString(salt) + "$" + hex.EncodeToString(digest)

	assert.True(t, h.Verify([]byte("old password"), stored))
	assert.False(t, h.Verify([]byte("new password"), stored))
}

func TestHasher_MalformedStoredValues(t *testing.T) {
	h := NewHasher(testSalt, testIterations)

	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"not hex", "zzzz"},
		{"legacy with bad salt hex", "nothex$" + h.Hash([]byte("pw"))},
		{"legacy with bad digest hex", "0102$nothex"},
		{"legacy with empty digest", "0102$"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, h.Verify([]byte("pw"), tc.stored))
		})
	}
}
