package credential

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/civicseva/grievance/internal/csvx"
)

// MigrationOutcome distinguishes the three ways opening a credential file can
// go with respect to legacy layouts. Earlier versions of the system swallowed
// migration failures silently; surfacing them is deliberate.
type MigrationOutcome int

const (
	// MigrationNotNeeded: the file was absent, empty, or already in the
	// two-column layout.
	MigrationNotNeeded MigrationOutcome = iota
	// MigrationDone: a legacy file was rewritten; a backup was taken first.
	MigrationDone
	// MigrationFailed: the legacy file could not be converted. The file is
	// left untouched and Reason explains why.
	MigrationFailed
)

func (o MigrationOutcome) String() string {
	switch o {
	case MigrationNotNeeded:
		return "not needed"
	case MigrationDone:
		return "migrated"
	case MigrationFailed:
		return "failed"
	}
	return "unknown"
}

// MigrationResult reports what happened to the credential file on open.
type MigrationResult struct {
	Outcome    MigrationOutcome
	Reason     string // set when Outcome is MigrationFailed
	BackupPath string // set when Outcome is MigrationDone
}

// migrateLegacy converts a three-column credential file
// (username,salt,pwd_hash in any column order, header matched
// case-insensitively) into the two-column layout, combining salt and hash as
// "salt$hash". The original bytes are copied to a timestamped backup before
// the rewrite, so a migrated file can always be recovered verbatim.
func migrateLegacy(path string) MigrationResult {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return MigrationResult{Outcome: MigrationNotNeeded}
		}
		return MigrationResult{Outcome: MigrationFailed, Reason: fmt.Sprintf("read: %v", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return MigrationResult{Outcome: MigrationNotNeeded}
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return MigrationResult{Outcome: MigrationFailed, Reason: fmt.Sprintf("parse: %v", err)}
	}
	if len(records) == 0 {
		return MigrationResult{Outcome: MigrationNotNeeded}
	}

	userCol, saltCol, hashCol := -1, -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "username":
			userCol = i
		case "salt":
			saltCol = i
		case "pwd_hash", "pwdhash", "hash":
			hashCol = i
		}
	}
	if saltCol < 0 && hashCol < 0 {
		return MigrationResult{Outcome: MigrationNotNeeded}
	}
	if userCol < 0 {
		return MigrationResult{Outcome: MigrationFailed, Reason: "legacy header has no username column"}
	}

	field := func(rec []string, col int) string {
		if col < 0 || col >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[col])
	}

	out := make([][]string, 0, len(records))
	out = append(out, fileHeader)
	for _, rec := range records[1:] {
		combined := field(rec, saltCol) + "$" + field(rec, hashCol)
		out = append(out, []string{field(rec, userCol), combined})
	}

	bak := fmt.Sprintf("%s.bak.%d", path, time.Now().Unix())
	if err := os.WriteFile(bak, raw, 0o600); err != nil {
		// no backup, no rewrite: the original must stay recoverable
		return MigrationResult{Outcome: MigrationFailed, Reason: fmt.Sprintf("backup: %v", err)}
	}

	if err := csvx.WriteFile(path, out); err != nil {
		return MigrationResult{Outcome: MigrationFailed, Reason: fmt.Sprintf("rewrite: %v", err)}
	}

	return MigrationResult{Outcome: MigrationDone, BackupPath: bak}
}
