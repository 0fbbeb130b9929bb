package credential

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/civicseva/grievance/internal/common"
	"github.com/civicseva/grievance/internal/csvx"
	"github.com/civicseva/grievance/internal/logging"
)

// fileHeader is the canonical two-column layout of the credential file.
var fileHeader = []string{"username", "password"}

type row struct {
	username string
	hash     string
}

// Store is a CSV-backed credential repository. All lookups are linear scans;
// the file is small (one row per account) and single-process access is the
// documented operating model.
type Store struct {
	path   string
	hasher Hasher
	log    logging.Logger
}

// Open runs the legacy-schema migration, makes sure the file exists with the
// canonical header, and returns the store together with the migration result.
// A failed migration leaves the file untouched; the caller decides whether to
// surface it to the operator or refuse to start.
//
// After a failed migration the store is degraded on purpose: it still opens
// over the unmigrated file, but its rows do not read back as username,hash
// pairs, so the accounts in them fail to verify (or error, when the file is
// unreadable) until the file is repaired and migration succeeds. The
// operator sees the warning below plus the surfaced MigrationResult.
func Open(path string, hasher Hasher, log logging.Logger) (*Store, MigrationResult, error) {
	res := migrateLegacy(path)

	if res.Outcome == MigrationFailed {
		log.Warn(context.Background(), "credential store opened over an unmigrated legacy file, stored accounts will not verify",
			"path", path, "reason", res.Reason)
	} else if err := ensureFile(path); err != nil {
		return nil, res, fmt.Errorf("credential file %s: %w", path, err)
	}

	return &Store{path: path, hasher: hasher, log: log}, res, nil
}

// Create adds a new account. Usernames are compared case-sensitively; a
// second account differing only in case is allowed, matching the historical
// data on disk.
func (s *Store) Create(ctx context.Context, username, password string) error {
	rows, err := s.readAll()
	if err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}
	for _, r := range rows {
		if r.username == username {
			return common.ErrDuplicateUsername
		}
	}

	hash := s.hasher.Hash([]byte(password))
	if err := csvx.AppendRow(s.path, []string{username, hash}); err != nil {
		return fmt.Errorf("appending credential row: %w", err)
	}

	s.log.Info(ctx, "account created", "username", username)
	return nil
}

// Verify reports whether the given credentials match a stored account.
// The first row with a matching username wins; an absent username or an
// empty stored hash verifies as false, not as an error.
func (s *Store) Verify(ctx context.Context, username, password string) (bool, error) {
	rows, err := s.readAll()
	if err != nil {
		return false, fmt.Errorf("reading credentials: %w", err)
	}
	for _, r := range rows {
		if r.username == username {
			if r.hash == "" {
				return false, nil
			}
			return s.hasher.Verify([]byte(password), r.hash), nil
		}
	}
	return false, nil
}

// Hash returns the stored password hash for username, for the session
// handoff record. Returns common.ErrNotFound when the account is absent.
func (s *Store) Hash(username string) (string, error) {
	rows, err := s.readAll()
	if err != nil {
		return "", fmt.Errorf("reading credentials: %w", err)
	}
	for _, r := range rows {
		if r.username == username {
			return r.hash, nil
		}
	}
	return "", common.ErrNotFound
}

func (s *Store) readAll() ([]row, error) {
	records, err := csvx.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]row, 0, len(records)-1)
	for _, rec := range records[1:] { // skip header
		switch {
		case len(rec) >= 2:
			rows = append(rows, row{username: strings.TrimSpace(rec[0]), hash: strings.TrimSpace(rec[1])})
		case len(rec) == 1:
			rows = append(rows, row{username: strings.TrimSpace(rec[0])})
		}
	}
	return rows, nil
}

// ensureFile creates the credential file with its header when it is missing
// or empty.
func ensureFile(path string) error {
	info, err := os.Stat(path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(fileHeader); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
