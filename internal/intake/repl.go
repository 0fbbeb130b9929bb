package intake

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// execIface defines the minimal command surface the loop needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	NewComplaint(ctx context.Context) error
	UpdateStatus(ctx context.Context, ticketID, newStatus string) error
	History(ctx context.Context, ticketID string) error
	Department(ctx context.Context, department string) error
}

// Run starts the intake loop. It exits when the user types "exit" or on
// input EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "Welcome to the grievance desk, %s (type 'help' for commands)\n", a.identity.Username)
	runLoop(ctx, a, bufio.NewScanner(os.Stdin), a.out)
}

// runLoop reads a command per line and dispatches to methods on e. Errors
// returned by the handlers end the loop; handlers report recoverable
// conditions (duplicate complaint, unknown ticket) to the user themselves
// and return nil.
func runLoop(ctx context.Context, e execIface, scanner *bufio.Scanner, w io.Writer) {
	for {
		fmt.Fprint(w, "intake> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch parts[0] {
		case "help":
			fmt.Fprintln(w, "Available commands:")
			fmt.Fprintln(w, "  new                          file a new complaint")
			fmt.Fprintln(w, "  status <ticket> <status>     update a ticket's status")
			fmt.Fprintln(w, "  history <ticket>             show a ticket's current state")
			fmt.Fprintln(w, "  dept <department name>       list a department's complaints")
			fmt.Fprintln(w, "  exit                         leave the desk")
		case "new":
			err = e.NewComplaint(ctx)
		case "status":
			if len(parts) < 3 {
				fmt.Fprintln(w, "Usage: status <ticket> <status>")
				continue
			}
			err = e.UpdateStatus(ctx, parts[1], strings.Join(parts[2:], " "))
		case "history":
			if len(parts) != 2 {
				fmt.Fprintln(w, "Usage: history <ticket>")
				continue
			}
			err = e.History(ctx, parts[1])
		case "dept":
			if len(parts) < 2 {
				fmt.Fprintln(w, "Usage: dept <department name>")
				continue
			}
			err = e.Department(ctx, strings.Join(parts[1:], " "))
		case "exit", "quit":
			return
		default:
			fmt.Fprintf(w, "Unknown command %q, type 'help'\n", parts[0])
		}

		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
	}
}
