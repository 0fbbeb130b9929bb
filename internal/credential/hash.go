// Package credential persists username → password-hash rows in a flat CSV
// file and verifies login attempts against them. Two stored-hash layouts are
// understood: the current form (a bare hex digest computed with the fixed
// global salt) and the legacy form "salt_hex$hash_hex" carrying a per-record
// salt. Legacy credential files with separate salt/hash columns are migrated
// on open; see migrate.go.
package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Hasher derives and checks password hashes with PBKDF2-HMAC-SHA256.
// The salt and iteration count are injected at construction time from config.
type Hasher struct {
	salt       []byte
	iterations int
}

func NewHasher(salt []byte, iterations int) Hasher {
	return Hasher{salt: salt, iterations: iterations}
}

// Hash returns the hex digest of password under the fixed global salt.
// This is the form stored for newly created users.
func (h Hasher) Hash(password []byte) string {
	sum := pbkdf2.Key(password, h.salt, h.iterations, sha256.Size, sha256.New)
	return hex.EncodeToString(sum)
}

// Verify reports whether password matches a stored hash. A '$' in the stored
// value marks the legacy layout: the left side is a hex per-record salt, the
// right side the hex digest derived with it. Without a separator the fixed
// global salt applies. Malformed or empty stored values never verify.
func (h Hasher) Verify(password []byte, stored string) bool {
	if i := strings.IndexByte(stored, '$'); i >= 0 {
		salt, err := hex.DecodeString(stored[:i])
		if err != nil {
			return false
		}
		return h.check(password, salt, stored[i+1:])
	}
	return h.check(password, h.salt, stored)
}

func (h Hasher) check(password, salt []byte, digestHex string) bool {
	want, err := hex.DecodeString(digestHex)
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key(password, salt, h.iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
