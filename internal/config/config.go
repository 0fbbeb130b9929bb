// Package config holds runtime settings shared by the auth screen and the
// intake wizard. Values are layered: defaults first, then an optional JSON
// file, then command-line flags. Later sources take precedence.
package config

import "path/filepath"

// Config carries everything the two binaries need to find their files and
// hash passwords.
//
// PasswordSalt is the fixed global salt for newly created credentials. It is
// injected here, rather than baked into the credential package, so deployments
// can rotate it; the default is the historical value, which existing
// credential files were hashed with.
type Config struct {
	// DataDir is the directory holding every flat file the system touches.
	DataDir string

	// UsersFile is the credential CSV file name, relative to DataDir.
	UsersFile string

	// SessionFile is the session handoff JSON file name, relative to DataDir.
	SessionFile string

	// LedgerFile is the master complaint CSV file name, relative to DataDir.
	// Per-department files live next to it.
	LedgerFile string

	// TicketPrefix and TicketStart control ticket ID allocation.
	TicketPrefix string
	TicketStart  int

	// PasswordSalt and Iterations parameterize PBKDF2-HMAC-SHA256.
	PasswordSalt string
	Iterations   int

	// IntakeCommand is the executable the auth screen starts after a
	// successful login or signup.
	IntakeCommand string

	// Verbose enables debug logging.
	Verbose bool
}

// LoadDefaults populates c with the values the system has always used.
func (c *Config) LoadDefaults() {
	c.DataDir = "."
	c.UsersFile = "users.csv"
	c.SessionFile = "session.json"
	c.LedgerFile = "complaints.csv"
	c.TicketPrefix = "TCKT"
	c.TicketStart = 1001
	c.PasswordSalt = "spandana_global_salt_v1"
	c.Iterations = 200000
	c.IntakeCommand = "intake"
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// UsersPath returns the absolute-ish path of the credential file.
func (c *Config) UsersPath() string { return filepath.Join(c.DataDir, c.UsersFile) }

// SessionPath returns the path of the session handoff file.
func (c *Config) SessionPath() string { return filepath.Join(c.DataDir, c.SessionFile) }

// LedgerPath returns the path of the master complaint ledger.
func (c *Config) LedgerPath() string { return filepath.Join(c.DataDir, c.LedgerFile) }
