// Package ledger persists complaint records in a master CSV file and
// mirrors each record into a per-department CSV file. Both files are
// append-mostly; status updates rewrite the whole file. The master and
// department copies are updated independently with no transaction across
// them. A crash between the two writes leaves them inconsistent; that
// divergence is a known risk of the format, not something the store
// repairs silently.
package ledger

// Status values a complaint moves through. Records are created Open and
// never deleted; status changes overwrite the row in place.
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"

	TicketAliveYes = "Yes"
)

// masterHeader is the canonical 13-column layout of the master ledger.
// Older files with drifted headers are normalized onto it on load.
var masterHeader = []string{
	"username",
	"password_hash",
	"name",
	"mobile_number",
	"location",
	"complaint_type",
	"complaint_description",
	"ticket_id",
	"status",
	"ticket_alive",
	"created_at",
	"last_updated_at",
	"assigned_department",
}

// departmentHeader is the 11-column layout of every per-department file.
var departmentHeader = []string{
	"ticket_id",
	"username",
	"name",
	"mobile_number",
	"location",
	"complaint_type",
	"complaint_description",
	"status",
	"urgency_level",
	"created_at",
	"last_updated_at",
}

// DepartmentFiles maps each of the nine fixed departments to its ledger
// file name. Department files live next to the master file.
var DepartmentFiles = map[string]string{
	"Electrical Department":   "electrical_department.csv",
	"Water Department":        "water_department.csv",
	"Public Works Department": "public_works_department.csv",
	"Sanitation Department":   "sanitation_department.csv",
	"Revenue Department":      "revenue_department.csv",
	"Municipal Corporation":   "municipal_corporation.csv",
	"Health Department":       "health_department.csv",
	"Education Department":    "education_department.csv",
	"General Administration":  "general_administration.csv",
}

// Record is one master-ledger row. TicketID is the unique key.
//
// UrgencyLevel is carried on the struct but persisted only in the department
// projection; the master file does not have an urgency column.
type Record struct {
	Username             string
	PasswordHash         string
	Name                 string
	MobileNumber         string
	Location             string
	ComplaintType        string
	ComplaintDescription string
	TicketID             string
	Status               string
	TicketAlive          string
	CreatedAt            string
	LastUpdatedAt        string
	AssignedDepartment   string
	UrgencyLevel         string
}

// DepartmentRecord is one row of a per-department file: the denormalized
// subset of a master record plus the urgency tier.
type DepartmentRecord struct {
	TicketID             string
	Username             string
	Name                 string
	MobileNumber         string
	Location             string
	ComplaintType        string
	ComplaintDescription string
	Status               string
	UrgencyLevel         string
	CreatedAt            string
	LastUpdatedAt        string
}

func (r Record) masterRow() []string {
	return []string{
		r.Username,
		r.PasswordHash,
		r.Name,
		r.MobileNumber,
		r.Location,
		r.ComplaintType,
		r.ComplaintDescription,
		r.TicketID,
		r.Status,
		r.TicketAlive,
		r.CreatedAt,
		r.LastUpdatedAt,
		r.AssignedDepartment,
	}
}

func (r Record) departmentRow() []string {
	return []string{
		r.TicketID,
		r.Username,
		r.Name,
		r.MobileNumber,
		r.Location,
		r.ComplaintType,
		r.ComplaintDescription,
		r.Status,
		r.UrgencyLevel,
		r.CreatedAt,
		r.LastUpdatedAt,
	}
}

// field returns column i of a possibly short row.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func recordFromRow(row []string) Record {
	return Record{
		Username:             field(row, 0),
		PasswordHash:         field(row, 1),
		Name:                 field(row, 2),
		MobileNumber:         field(row, 3),
		Location:             field(row, 4),
		ComplaintType:        field(row, 5),
		ComplaintDescription: field(row, 6),
		TicketID:             field(row, 7),
		Status:               field(row, 8),
		TicketAlive:          field(row, 9),
		CreatedAt:            field(row, 10),
		LastUpdatedAt:        field(row, 11),
		AssignedDepartment:   field(row, 12),
	}
}

func departmentRecordFromRow(row []string) DepartmentRecord {
	return DepartmentRecord{
		TicketID:             field(row, 0),
		Username:             field(row, 1),
		Name:                 field(row, 2),
		MobileNumber:         field(row, 3),
		Location:             field(row, 4),
		ComplaintType:        field(row, 5),
		ComplaintDescription: field(row, 6),
		Status:               field(row, 7),
		UrgencyLevel:         field(row, 8),
		CreatedAt:            field(row, 9),
		LastUpdatedAt:        field(row, 10),
	}
}
