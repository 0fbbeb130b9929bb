package ledger

import (
	"os"
	"slices"
	"strings"

	"github.com/civicseva/grievance/internal/csvx"
)

// headerAliases maps column names seen in older master files (lower-cased)
// onto the canonical snake_case columns. The original desktop tool wrote
// mixed-case headers like "Mobile Number" and tracked creation time in a
// "Timestamp" column; files produced by it still exist in the field.
var headerAliases = map[string]string{
	"username":              "username",
	"password_hash":         "password_hash",
	"password hash":         "password_hash",
	"name":                  "name",
	"mobile_number":         "mobile_number",
	"mobile number":         "mobile_number",
	"location":              "location",
	"complaint_type":        "complaint_type",
	"complaint type":        "complaint_type",
	"complaint_description": "complaint_description",
	"complaint description": "complaint_description",
	"ticket_id":             "ticket_id",
	"ticket id":             "ticket_id",
	"status":                "status",
	"ticket_alive":          "ticket_alive",
	"ticket alive":          "ticket_alive",
	"created_at":            "created_at",
	"timestamp":             "created_at",
	"last_updated_at":       "last_updated_at",
	"last_updated":          "last_updated_at",
	"last updated":          "last_updated_at",
	"assigned_department":   "assigned_department",
	"assigned department":   "assigned_department",
}

// ensureMaster makes sure the master file exists with the canonical header.
// A file whose header differs is normalized in place: known columns are
// remapped, a missing last-updated value is backfilled from the creation
// time, unknown columns are dropped. This is a one-time, best-effort
// migration of drifted files, not a versioned schema log.
func (s *Store) ensureMaster() error {
	if _, err := os.Stat(s.masterPath); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		return csvx.WriteFile(s.masterPath, [][]string{masterHeader})
	}
	return s.normalizeMaster()
}

func (s *Store) normalizeMaster() error {
	records, err := csvx.ReadFile(s.masterPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return csvx.WriteFile(s.masterPath, [][]string{masterHeader})
	}
	if slices.Equal(records[0], masterHeader) {
		return nil
	}

	// source column index for each canonical column
	srcIdx := make(map[string]int, len(masterHeader))
	for i, name := range records[0] {
		canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, seen := srcIdx[canonical]; !seen {
			srcIdx[canonical] = i
		}
	}

	out := make([][]string, 0, len(records))
	out = append(out, masterHeader)
	for _, row := range records[1:] {
		newRow := make([]string, len(masterHeader))
		for j, canonical := range masterHeader {
			if i, ok := srcIdx[canonical]; ok {
				newRow[j] = field(row, i)
			}
		}
		// rows written before the last-updated column existed inherit the
		// creation timestamp
		if newRow[11] == "" {
			newRow[11] = newRow[10]
		}
		out = append(out, newRow)
	}

	return csvx.WriteFile(s.masterPath, out)
}
