package auth

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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	done() bool
}

// Run starts the authentication loop. It exits when the user types "exit",
// on input EOF, or after a successful handoff to the intake screen.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Grievance desk: sign in or create an account (type 'help' for commands)")
	runLoop(ctx, a, bufio.NewScanner(os.Stdin), a.out)
}

// runLoop reads a command per line and dispatches to methods on e. Errors
// returned by the handlers end the loop; handlers report recoverable
// conditions (bad password, duplicate username) to the user themselves and
// return nil.
func runLoop(ctx context.Context, e execIface, scanner *bufio.Scanner, w io.Writer) {
	for {
		if e.done() {
			return
		}
		fmt.Fprint(w, "auth> ")
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
			fmt.Fprintln(w, "Available commands: register, login, exit")
		case "register":
			err = e.Register(ctx)
		case "login":
			err = e.Login(ctx)
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
