// Package intake implements the second screen of the grievance desk: a
// guided wizard that collects a complaint, classifies it, assigns a tracking
// ticket, and records it in the master and department ledgers. It also
// exposes the record-keeping commands clerks use afterwards: status updates,
// ticket history, and per-department listings.
package intake

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/civicseva/grievance/internal/classify"
	"github.com/civicseva/grievance/internal/common"
	"github.com/civicseva/grievance/internal/config"
	"github.com/civicseva/grievance/internal/ledger"
	"github.com/civicseva/grievance/internal/logging"
	"github.com/civicseva/grievance/internal/prompt"
	"github.com/civicseva/grievance/internal/session"
	"github.com/civicseva/grievance/internal/ticket"
)

// getText and getMultiline are indirections used to facilitate testing.
var getText = prompt.Text
var getMultiline = prompt.Multiline

type App struct {
	cfg      *config.Config
	ledger   *ledger.Store
	alloc    *ticket.Allocator
	identity session.Record
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the ledger, seeds the ticket allocator from the IDs already
// on file, and loads the session identity. A missing session is tolerated:
// submissions proceed with placeholder identity values, they just cannot
// participate in duplicate detection.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := ledger.NewStore(cfg.LedgerPath(), log)
	if err != nil {
		return nil, err
	}

	ids, err := store.TicketIDs()
	if err != nil {
		return nil, err
	}
	alloc := ticket.NewAllocator(cfg.TicketPrefix, cfg.TicketStart, ids)

	identity := session.ReadOrPlaceholder(cfg.SessionPath())
	if identity.Username == session.Placeholder {
		log.Warn(context.Background(), "no session found, proceeding with placeholder identity")
	}

	return &App{
		cfg:      cfg,
		ledger:   store,
		alloc:    alloc,
		identity: identity,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// NewComplaint runs the guided wizard: collect and validate the fields,
// classify, check for a duplicate, allocate a ticket, persist. A detected
// duplicate aborts the submission with the existing ticket ID; only user
// action (a different complaint type) can proceed past it.
func (a *App) NewComplaint(ctx context.Context) error {
	sub, err := a.collect()
	if err != nil {
		return err
	}

	department, urgency := classify.Classify(sub.ComplaintType, sub.Description)

	// placeholder identities cannot be told apart, so they skip the check
	if a.identity.Username != session.Placeholder {
		dup, existingID, err := a.ledger.FindDuplicate(
			a.identity.Username, a.identity.PasswordHash, sub.ComplaintType)
		if err != nil {
			a.log.Error(ctx, "duplicate check failed", "error", err)
			fmt.Fprintln(a.out, "Could not check for existing complaints, submission aborted")
			return nil
		}
		if dup {
			fmt.Fprintf(a.out,
				"You have already submitted a %q complaint. Your existing ticket is %s.\n",
				sub.ComplaintType, existingID)
			return nil
		}
	}

	if err := sub.Validate(); err != nil {
		// collect() validates field by field, so this indicates a bug
		return fmt.Errorf("submission invalid: %w", err)
	}

	now := common.Timestamp()
	rec := ledger.Record{
		Username:             a.identity.Username,
		PasswordHash:         a.identity.PasswordHash,
		Name:                 sub.Name,
		MobileNumber:         sub.MobileNumber,
		Location:             sub.Location,
		ComplaintType:        sub.ComplaintType,
		ComplaintDescription: sub.Description,
		TicketID:             a.alloc.Next(),
		Status:               ledger.StatusOpen,
		TicketAlive:          ledger.TicketAliveYes,
		CreatedAt:            now,
		LastUpdatedAt:        now,
		AssignedDepartment:   department,
		UrgencyLevel:         urgency,
	}

	if err := a.ledger.Append(ctx, rec); err != nil {
		a.log.Error(ctx, "complaint not saved", "error", err)
		fmt.Fprintln(a.out, "Could not save the complaint, please try again")
		return nil
	}

	fmt.Fprintf(a.out, "Your complaint has been submitted.\n"+
		"  Ticket ID:  %s\n"+
		"  Status:     %s\n"+
		"  Department: %s\n"+
		"  Urgency:    %s\n"+
		"Please note your ticket ID for future reference.\n",
		rec.TicketID, rec.Status, rec.AssignedDepartment, rec.UrgencyLevel)
	return nil
}

// collect asks for each field in turn, re-prompting until the answer
// validates. There is no timeout and no attempt limit: the desk re-asks the
// way the voice flow re-prompted after a failed capture.
func (a *App) collect() (Submission, error) {
	var sub Submission

	name, err := a.askRequired("Please enter your name.")
	if err != nil {
		return sub, err
	}
	sub.Name = name

	for {
		raw, err := getText(a.reader, "Please enter your mobile number.", a.out)
		if err != nil {
			return sub, err
		}
		cleaned, vErr := checkMobile(raw)
		if vErr != nil {
			fmt.Fprintln(a.out, vErr)
			continue
		}
		sub.MobileNumber = cleaned
		break
	}

	location, err := a.askRequired("Please enter your location.")
	if err != nil {
		return sub, err
	}
	sub.Location = location

	complaintType, err := a.askRequired("What type of complaint do you have?")
	if err != nil {
		return sub, err
	}
	sub.ComplaintType = complaintType

	for {
		desc, err := getMultiline(a.reader, "Please describe your complaint.", a.out)
		if err != nil {
			return sub, err
		}
		if vErr := checkRequired(desc); vErr != nil {
			fmt.Fprintln(a.out, vErr)
			continue
		}
		sub.Description = desc
		break
	}

	return sub, nil
}

func (a *App) askRequired(question string) (string, error) {
	for {
		answer, err := getText(a.reader, question, a.out)
		if err != nil {
			return "", err
		}
		if vErr := checkRequired(answer); vErr != nil {
			fmt.Fprintln(a.out, vErr)
			continue
		}
		return answer, nil
	}
}

// UpdateStatus sets a ticket's status in both ledgers.
func (a *App) UpdateStatus(ctx context.Context, ticketID, newStatus string) error {
	found, err := a.ledger.UpdateStatus(ctx, ticketID, newStatus)
	if err != nil {
		a.log.Error(ctx, "status update failed", "error", err)
		fmt.Fprintln(a.out, "Could not update the status, please try again")
		return nil
	}
	if !found {
		fmt.Fprintf(a.out, "No ticket %s on file\n", ticketID)
		return nil
	}
	fmt.Fprintf(a.out, "Ticket %s is now %s\n", ticketID, newStatus)
	return nil
}

// History prints the current state of one ticket.
func (a *App) History(ctx context.Context, ticketID string) error {
	rec, err := a.ledger.History(ticketID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintf(a.out, "No ticket %s on file\n", ticketID)
			return nil
		}
		a.log.Error(ctx, "history lookup failed", "error", err)
		fmt.Fprintln(a.out, "Could not read the ledger, please try again")
		return nil
	}

	fmt.Fprintf(a.out, "Ticket %s\n"+
		"  Status:       %s\n"+
		"  Type:         %s\n"+
		"  Description:  %s\n"+
		"  Department:   %s\n"+
		"  Created:      %s\n"+
		"  Last updated: %s\n",
		rec.TicketID, rec.Status, rec.ComplaintType, rec.ComplaintDescription,
		rec.AssignedDepartment, rec.CreatedAt, rec.LastUpdatedAt)
	return nil
}

// Department lists every complaint routed to one department.
func (a *App) Department(ctx context.Context, department string) error {
	recs, err := a.ledger.DepartmentComplaints(department)
	if err != nil {
		if errors.Is(err, common.ErrUnknownDepartment) {
			fmt.Fprintf(a.out, "Unknown department %q\n", department)
			return nil
		}
		a.log.Error(ctx, "department listing failed", "error", err)
		fmt.Fprintln(a.out, "Could not read the department ledger, please try again")
		return nil
	}

	if len(recs) == 0 {
		fmt.Fprintf(a.out, "No complaints on file for %s\n", department)
		return nil
	}
	fmt.Fprintf(a.out, "%d complaint(s) for %s:\n", len(recs), department)
	for _, r := range recs {
		fmt.Fprintf(a.out, "  %s  %-8s %-8s %s\n", r.TicketID, r.Status, r.UrgencyLevel, r.ComplaintType)
	}
	return nil
}
