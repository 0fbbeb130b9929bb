// Package auth implements the first screen of the grievance desk: account
// creation and login against the credential store. A successful login or
// signup writes the session handoff record and starts the intake wizard as
// an independent process, after which this screen's job is done.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/civicseva/grievance/internal/common"
	"github.com/civicseva/grievance/internal/config"
	"github.com/civicseva/grievance/internal/credential"
	"github.com/civicseva/grievance/internal/logging"
	"github.com/civicseva/grievance/internal/prompt"
	"github.com/civicseva/grievance/internal/session"
)

// getText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getText = prompt.Text
var getPassword = prompt.Password

type App struct {
	cfg       *config.Config
	store     *credential.Store
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	handedOff bool
}

// NewApp opens the credential store and reports the migration outcome.
// A failed migration does not prevent startup, since logins against the
// untouched legacy file may still work, but it is surfaced loudly rather than
// swallowed.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	hasher := credential.NewHasher([]byte(cfg.PasswordSalt), cfg.Iterations)
	store, migration, err := credential.Open(cfg.UsersPath(), hasher, log)
	if err != nil {
		return nil, err
	}

	switch migration.Outcome {
	case credential.MigrationDone:
		log.Info(ctx, "credential file migrated to the two-column layout",
			"backup", migration.BackupPath)
	case credential.MigrationFailed:
		log.Warn(ctx, "credential file migration failed, file left untouched",
			"reason", migration.Reason)
	}

	return &App{
		cfg:    cfg,
		store:  store,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Register prompts for a username and password (entered twice) and creates
// the account. On success the session handoff runs and the intake wizard is
// started.
func (a *App) Register(ctx context.Context) error {
	username, err := getText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	if username == "" {
		fmt.Fprintln(a.out, "Username must not be empty")
		return nil
	}

	password, err := getPassword(a.out, "Choose a password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) == 0 {
		fmt.Fprintln(a.out, "Password must not be empty")
		return nil
	}

	confirm, err := getPassword(a.out, "Confirm password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		fmt.Fprintln(a.out, "Passwords do not match")
		return nil
	}

	if err := a.store.Create(ctx, username, string(password)); err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			fmt.Fprintln(a.out, "Username already exists")
			return nil
		}
		a.log.Error(ctx, "account creation failed", "error", err)
		fmt.Fprintln(a.out, "Could not create the account, please try again")
		return nil
	}

	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", username)
	return a.handoff(ctx, username)
}

// Login verifies credentials and, on success, hands off to the intake
// wizard. Invalid credentials leave the loop running for another attempt.
func (a *App) Login(ctx context.Context) error {
	username, err := getText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ok, err := a.store.Verify(ctx, username, string(password))
	if err != nil {
		a.log.Error(ctx, "credential check failed", "error", err)
		fmt.Fprintln(a.out, "Could not check the credentials, please try again")
		return nil
	}
	if !ok {
		fmt.Fprintln(a.out, "Invalid username or password")
		return nil
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", username)
	return a.handoff(ctx, username)
}

// handoff writes the session record and starts the intake process. A failed
// session write is reported but does not abort: the intake wizard tolerates
// a missing session by falling back to the environment, which the launch
// also sets.
func (a *App) handoff(ctx context.Context, username string) error {
	hash, err := a.store.Hash(username)
	if err != nil {
		return fmt.Errorf("loading stored hash: %w", err)
	}
	rec := session.Record{Username: username, PasswordHash: hash}

	if err := session.Write(a.cfg.SessionPath(), rec); err != nil {
		a.log.Warn(ctx, "session file not written", "error", err)
		fmt.Fprintln(a.out, "Warning: session file could not be written")
	}

	if err := a.launchIntake(rec); err != nil {
		a.log.Error(ctx, "intake process not started", "error", err)
		fmt.Fprintf(a.out, "Could not start the intake screen (%v); run it manually with: %s\n",
			err, a.cfg.IntakeCommand)
	}

	a.handedOff = true
	return nil
}

func (a *App) done() bool { return a.handedOff }
