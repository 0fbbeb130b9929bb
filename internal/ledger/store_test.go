package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicseva/grievance/internal/common"
	"github.com/civicseva/grievance/internal/logging"
	"github.com/civicseva/grievance/internal/ticket"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	s, err := NewStore(filepath.Join(dir, "complaints.csv"), log)
	require.NoError(t, err)
	return s, dir
}

func sampleRecord() Record {
	return Record{
		Username:             "ravi",
		PasswordHash:         "abcd1234",
		Name:                 "Ravi Kumar",
		MobileNumber:         "9876543210",
		Location:             "Ward 12",
		ComplaintType:        "water leakage",
		ComplaintDescription: "pipe burst near the school",
		TicketID:             "TCKT1001",
		Status:               StatusOpen,
		TicketAlive:          "Yes",
		CreatedAt:            "2024-01-01 10:00:00",
		LastUpdatedAt:        "2024-01-01 10:00:00",
		AssignedDepartment:   "Water Department",
		UrgencyLevel:         "High",
	}
}

func TestNewStore_CreatesMasterWithHeader(t *testing.T) {
	s, dir := newTestStore(t)
	_ = s

	data, err := os.ReadFile(filepath.Join(dir, "complaints.csv"))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(masterHeader, ",")+"\n", string(data))
}

func TestAppend_WritesMasterAndDepartmentFiles(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleRecord()))

	rows, err := s.masterRecords()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TCKT1001", rows[0].TicketID)
	assert.Equal(t, "Water Department", rows[0].AssignedDepartment)

	// department file created with its own header plus the projection
	deptData, err := os.ReadFile(filepath.Join(dir, "water_department.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(deptData)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(departmentHeader, ","), lines[0])
	assert.Contains(t, lines[1], "TCKT1001")
	assert.Contains(t, lines[1], "High")

	// no other department file gets touched
	_, err = os.Stat(filepath.Join(dir, "health_department.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestFindDuplicate(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), sampleRecord()))

	tests := []struct {
		name          string
		username      string
		passwordHash  string
		complaintType string
		wantDup       bool
	}{
		{"exact match", "ravi", "abcd1234", "water leakage", true},
		{"type differs only in case", "ravi", "abcd1234", "WATER Leakage", true},
		{"different username", "sita", "abcd1234", "water leakage", false},
		{"different hash", "ravi", "ffff0000", "water leakage", false},
		{"different type", "ravi", "abcd1234", "road damage", false},
		{"anonymous identity never matches", "", "", "water leakage", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dup, id, err := s.FindDuplicate(tc.username, tc.passwordHash, tc.complaintType)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDup, dup)
			if tc.wantDup {
				assert.Equal(t, "TCKT1001", id)
			} else {
				assert.Empty(t, id)
			}
		})
	}
}

func TestFindDuplicate_IgnoresStatus(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, sampleRecord()))

	_, err := s.UpdateStatus(ctx, "TCKT1001", StatusClosed)
	require.NoError(t, err)

	// a Closed complaint still blocks resubmission of the same type
	dup, id, err := s.FindDuplicate("ravi", "abcd1234", "water leakage")
	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, "TCKT1001", id)
}

func TestUpdateStatus_UpdatesBothFiles(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, sampleRecord()))

	found, err := s.UpdateStatus(ctx, "TCKT1001", StatusClosed)
	require.NoError(t, err)
	assert.True(t, found)

	// master row: status and last_updated_at changed, everything else intact
	rec, err := s.History("TCKT1001")
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, rec.Status)
	assert.Equal(t, "Ravi Kumar", rec.Name)
	assert.Equal(t, "2024-01-01 10:00:00", rec.CreatedAt)

	created, err := time.Parse(common.TimestampFormat, rec.CreatedAt)
	require.NoError(t, err)
	updated, err := time.Parse(common.TimestampFormat, rec.LastUpdatedAt)
	require.NoError(t, err)
	assert.True(t, updated.After(created), "last_updated_at %s not after created_at %s",
		rec.LastUpdatedAt, rec.CreatedAt)

	// department mirror follows
	deptRecs, err := s.DepartmentComplaints("Water Department")
	require.NoError(t, err)
	require.Len(t, deptRecs, 1)
	assert.Equal(t, StatusClosed, deptRecs[0].Status)
	assert.Equal(t, rec.LastUpdatedAt, deptRecs[0].LastUpdatedAt)
	assert.Equal(t, "High", deptRecs[0].UrgencyLevel)
}

func TestUpdateStatus_UnknownTicket(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), sampleRecord()))

	found, err := s.UpdateStatus(context.Background(), "TCKT9999", StatusClosed)
	require.NoError(t, err)
	assert.False(t, found)

	// nothing changed
	rec, err := s.History("TCKT1001")
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, rec.Status)
}

func TestHistory_UnknownTicket(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.History("TCKT4242")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDepartmentComplaints(t *testing.T) {
	s, _ := newTestStore(t)

	// untouched department: empty, not an error
	recs, err := s.DepartmentComplaints("Health Department")
	require.NoError(t, err)
	assert.Empty(t, recs)

	// unknown department name is an error
	_, err = s.DepartmentComplaints("Department of Mysteries")
	assert.True(t, errors.Is(err, common.ErrUnknownDepartment))
}

func TestTicketIDs_SeedAllocatorAcrossRestarts(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	alloc := ticket.NewAllocator("TCKT", 1001, nil)
	for i := 0; i < 3; i++ {
		rec := sampleRecord()
		rec.TicketID = alloc.Next()
		rec.ComplaintType = rec.ComplaintType + string(rune('a'+i))
		require.NoError(t, s.Append(ctx, rec))
	}

	// a new process reopens the ledger and seeds a fresh allocator
	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	s2, err := NewStore(filepath.Join(dir, "complaints.csv"), log)
	require.NoError(t, err)
	ids, err := s2.TicketIDs()
	require.NoError(t, err)
	require.Len(t, ids, 3)

	alloc2 := ticket.NewAllocator("TCKT", 1001, ids)
	assert.Equal(t, "TCKT1004", alloc2.Next())
}
