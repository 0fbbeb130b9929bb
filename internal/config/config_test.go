package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ".", c.DataDir)
	assert.Equal(t, "users.csv", c.UsersFile)
	assert.Equal(t, "session.json", c.SessionFile)
	assert.Equal(t, "complaints.csv", c.LedgerFile)
	assert.Equal(t, "TCKT", c.TicketPrefix)
	assert.Equal(t, 1001, c.TicketStart)
	assert.Equal(t, "spandana_global_salt_v1", c.PasswordSalt)
	assert.Equal(t, 200000, c.Iterations)
	assert.Equal(t, "intake", c.IntakeCommand)
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"prog"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "users.csv", cfg.UsersFile)
	assert.Equal(t, 1001, cfg.TicketStart)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"prog", "-d", "/var/lib/grievance", "-start", "5001", "-prefix", "GRV"}

	cfg := LoadConfig()
	assert.Equal(t, "/var/lib/grievance", cfg.DataDir)
	assert.Equal(t, 5001, cfg.TicketStart)
	assert.Equal(t, "GRV", cfg.TicketPrefix)
	// untouched fields keep their defaults
	assert.Equal(t, "users.csv", cfg.UsersFile)
}

func TestLoadConfig_JsonOverlayThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	body := `{"users_file":"accounts.csv","ticket_start":2001,"password_salt":"rotated_salt"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	// the flag layer overrides ticket_start from the JSON layer
	os.Args = []string{"prog", "-c", path, "-start", "3001"}

	cfg := LoadConfig()
	assert.Equal(t, "accounts.csv", cfg.UsersFile)
	assert.Equal(t, "rotated_salt", cfg.PasswordSalt)
	assert.Equal(t, 3001, cfg.TicketStart)
}

func TestPaths_JoinDataDir(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.DataDir = "/data"

	assert.Equal(t, filepath.Join("/data", "users.csv"), c.UsersPath())
	assert.Equal(t, filepath.Join("/data", "session.json"), c.SessionPath())
	assert.Equal(t, filepath.Join("/data", "complaints.csv"), c.LedgerPath())
}
