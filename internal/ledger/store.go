package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/civicseva/grievance/internal/common"
	"github.com/civicseva/grievance/internal/csvx"
	"github.com/civicseva/grievance/internal/logging"
)

// Store is the flat-file complaint ledger: one master CSV plus one CSV per
// department, all in the directory of the master file. Every lookup is a
// linear scan and every mutation reads then rewrites a whole file; the store
// holds no locks and is safe only for the single-process operating model.
type Store struct {
	masterPath string
	dir        string
	log        logging.Logger
}

// NewStore opens the ledger rooted at masterPath, creating the master file
// with its canonical header or normalizing a drifted one.
func NewStore(masterPath string, log logging.Logger) (*Store, error) {
	s := &Store{
		masterPath: masterPath,
		dir:        filepath.Dir(masterPath),
		log:        log,
	}
	if err := s.ensureMaster(); err != nil {
		return nil, fmt.Errorf("ledger %s: %w", masterPath, err)
	}
	return s, nil
}

// Append writes rec to the master ledger and mirrors its projection into the
// file of rec.AssignedDepartment, creating either file with its header as
// needed. The two writes are independent: if the department write fails the
// master row stays, and the error reports the partial state.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if err := s.ensureMaster(); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	if err := csvx.AppendRow(s.masterPath, rec.masterRow()); err != nil {
		return fmt.Errorf("appending to master ledger: %w", err)
	}

	deptPath, ok := s.departmentPath(rec.AssignedDepartment)
	if !ok {
		s.log.Warn(ctx, "no department file for record",
			"ticket_id", rec.TicketID, "department", rec.AssignedDepartment)
		return nil
	}
	if err := s.ensureDepartment(deptPath); err != nil {
		return fmt.Errorf("master row written, department file failed: %w", err)
	}
	if err := csvx.AppendRow(deptPath, rec.departmentRow()); err != nil {
		return fmt.Errorf("master row written, department row failed: %w", err)
	}

	s.log.Info(ctx, "complaint recorded",
		"ticket_id", rec.TicketID,
		"department", rec.AssignedDepartment,
		"urgency", rec.UrgencyLevel)
	return nil
}

// FindDuplicate reports whether the identity given by (username,
// passwordHash) already has a complaint of the same type on file.
// complaintType is compared case-insensitively; the identity fields exactly.
// An anonymous identity (either field empty) never matches. Ticket status is
// deliberately ignored: a Closed complaint still blocks a resubmission of
// the same type.
func (s *Store) FindDuplicate(username, passwordHash, complaintType string) (bool, string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(passwordHash) == "" {
		return false, "", nil
	}

	rows, err := s.masterRecords()
	if err != nil {
		return false, "", err
	}

	wantType := strings.ToLower(strings.TrimSpace(complaintType))
	for _, r := range rows {
		if strings.TrimSpace(r.Username) == strings.TrimSpace(username) &&
			strings.TrimSpace(r.PasswordHash) == strings.TrimSpace(passwordHash) &&
			strings.ToLower(strings.TrimSpace(r.ComplaintType)) == wantType {
			return true, r.TicketID, nil
		}
	}
	return false, "", nil
}

// UpdateStatus sets the status of the ticket in the master ledger, stamps
// last_updated_at, rewrites the file, then performs the equivalent rewrite
// on the record's department file. Returns whether a master row matched.
// The two rewrites are not atomic as a pair; each one individually is a
// temp-file-plus-rename, so a single file is never torn.
func (s *Store) UpdateStatus(ctx context.Context, ticketID, newStatus string) (bool, error) {
	if err := s.ensureMaster(); err != nil {
		return false, fmt.Errorf("ledger: %w", err)
	}
	records, err := csvx.ReadFile(s.masterPath)
	if err != nil {
		return false, fmt.Errorf("reading master ledger: %w", err)
	}

	now := common.Timestamp()
	department := ""
	matched := false
	for i, row := range records {
		if i == 0 {
			continue
		}
		if field(row, 7) == ticketID { // ticket_id column
			rec := recordFromRow(row)
			rec.Status = newStatus
			rec.LastUpdatedAt = now
			records[i] = rec.masterRow()
			department = rec.AssignedDepartment
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}

	if err := csvx.WriteFile(s.masterPath, records); err != nil {
		return false, fmt.Errorf("rewriting master ledger: %w", err)
	}

	if err := s.updateDepartmentStatus(department, ticketID, newStatus, now); err != nil {
		// the master update stands; the mirror is now behind
		s.log.Error(ctx, "department ledger not updated",
			"ticket_id", ticketID, "department", department, "error", err)
	}

	s.log.Info(ctx, "status updated", "ticket_id", ticketID, "status", newStatus)
	return true, nil
}

func (s *Store) updateDepartmentStatus(department, ticketID, newStatus, now string) error {
	deptPath, ok := s.departmentPath(department)
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrUnknownDepartment, department)
	}
	records, err := csvx.ReadFile(deptPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return common.ErrNotFound
	}

	for i, row := range records {
		if i == 0 {
			continue
		}
		if field(row, 0) == ticketID { // ticket_id column
			rec := departmentRecordFromRow(row)
			rec.Status = newStatus
			rec.LastUpdatedAt = now
			records[i] = []string{
				rec.TicketID, rec.Username, rec.Name, rec.MobileNumber, rec.Location,
				rec.ComplaintType, rec.ComplaintDescription, rec.Status,
				rec.UrgencyLevel, rec.CreatedAt, rec.LastUpdatedAt,
			}
			return csvx.WriteFile(deptPath, records)
		}
	}
	return common.ErrNotFound
}

// History returns the master record for ticketID, or common.ErrNotFound.
func (s *Store) History(ticketID string) (Record, error) {
	rows, err := s.masterRecords()
	if err != nil {
		return Record{}, err
	}
	for _, r := range rows {
		if r.TicketID == ticketID {
			return r, nil
		}
	}
	return Record{}, common.ErrNotFound
}

// DepartmentComplaints lists every record of one department's file. A
// department that has not received a complaint yet yields an empty slice.
func (s *Store) DepartmentComplaints(department string) ([]DepartmentRecord, error) {
	deptPath, ok := s.departmentPath(department)
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownDepartment, department)
	}
	records, err := csvx.ReadFile(deptPath)
	if err != nil {
		return nil, fmt.Errorf("reading department ledger: %w", err)
	}

	out := make([]DepartmentRecord, 0)
	for i, row := range records {
		if i == 0 {
			continue
		}
		out = append(out, departmentRecordFromRow(row))
	}
	return out, nil
}

// TicketIDs returns every ticket_id in the master ledger, for seeding the
// allocator at process start.
func (s *Store) TicketIDs() ([]string, error) {
	rows, err := s.masterRecords()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.TicketID)
	}
	return ids, nil
}

func (s *Store) masterRecords() ([]Record, error) {
	if err := s.ensureMaster(); err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	records, err := csvx.ReadFile(s.masterPath)
	if err != nil {
		return nil, fmt.Errorf("reading master ledger: %w", err)
	}

	out := make([]Record, 0, len(records))
	for i, row := range records {
		if i == 0 {
			continue
		}
		out = append(out, recordFromRow(row))
	}
	return out, nil
}

func (s *Store) departmentPath(department string) (string, bool) {
	name, ok := DepartmentFiles[department]
	if !ok {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

func (s *Store) ensureDepartment(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return csvx.WriteFile(path, [][]string{departmentHeader})
}
