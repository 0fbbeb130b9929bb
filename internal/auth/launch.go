package auth

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/civicseva/grievance/internal/session"
)

// startProcess is a test seam; tests replace it to avoid spawning anything.
var startProcess = func(cmd *exec.Cmd) error { return cmd.Start() }

// launchIntake starts the intake wizard as an independent OS process. No
// arguments are passed: identity travels through the session file and,
// belt and braces, through the environment of the child.
func (a *App) launchIntake(rec session.Record) error {
	cmd := exec.Command(a.cfg.IntakeCommand)
	cmd.Env = append(os.Environ(),
		session.EnvUsername+"="+rec.Username,
		session.EnvPasswordHash+"="+rec.PasswordHash,
	)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := startProcess(cmd); err != nil {
		return fmt.Errorf("starting %s: %w", a.cfg.IntakeCommand, err)
	}
	return nil
}
