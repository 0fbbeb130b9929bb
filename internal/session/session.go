// Package session implements the identity handoff between the auth screen
// and the intake wizard. The two run as separate processes sharing no state;
// the auth screen writes a small JSON record at login/signup success and the
// wizard reads it once at startup. Environment variables act as a fallback
// transport for setups where the file location is inconvenient.
package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/civicseva/grievance/internal/common"
)

// Env var names for the fallback transport.
const (
	EnvUsername     = "GRIEVANCE_USERNAME"
	EnvPasswordHash = "GRIEVANCE_PASSWORD_HASH"
)

// Placeholder is substituted for identity fields when no session is
// available; submissions proceed with it rather than failing.
const Placeholder = "N/A"

// Record is the handoff payload: who logged in and the stored hash that
// identifies them in the ledger. There is no expiry; each login overwrites
// the previous record.
type Record struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// Write stores the record at path, replacing any previous session.
func Write(path string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Read loads the session record from path. When the file is absent the
// environment fallback is consulted; when that is empty too, Read returns
// common.ErrNotFound. A present but unreadable file is an error, not a
// fallthrough.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Record{}, fmt.Errorf("reading session file: %w", err)
		}
		return fromEnv()
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decoding session file: %w", err)
	}
	return rec, nil
}

// ReadOrPlaceholder is Read with the documented tolerance for absence: a
// missing session yields the placeholder identity instead of an error.
func ReadOrPlaceholder(path string) Record {
	rec, err := Read(path)
	if err != nil {
		return Record{Username: Placeholder, PasswordHash: Placeholder}
	}
	return rec
}

func fromEnv() (Record, error) {
	username := os.Getenv(EnvUsername)
	hash := os.Getenv(EnvPasswordHash)
	if username == "" || hash == "" {
		return Record{}, common.ErrNotFound
	}
	return Record{Username: username, PasswordHash: hash}, nil
}
