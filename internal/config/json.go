package config

import (
	"encoding/json"
	"os"

	"github.com/civicseva/grievance/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Fields left
// out of the file keep their current (default) values.
type JsonConfig struct {
	DataDir       *string `json:"data_dir"`
	UsersFile     *string `json:"users_file"`
	SessionFile   *string `json:"session_file"`
	LedgerFile    *string `json:"ledger_file"`
	TicketPrefix  *string `json:"ticket_prefix"`
	TicketStart   *int    `json:"ticket_start"`
	PasswordSalt  *string `json:"password_salt"`
	Iterations    *int    `json:"pbkdf2_iterations"`
	IntakeCommand *string `json:"intake_command"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c/-config flag. When no file is given the function is a no-op.
// Read or unmarshal errors panic; a broken config file should stop the
// process before any store is opened.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.UsersFile != nil {
		cfg.UsersFile = *jc.UsersFile
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
	if jc.LedgerFile != nil {
		cfg.LedgerFile = *jc.LedgerFile
	}
	if jc.TicketPrefix != nil {
		cfg.TicketPrefix = *jc.TicketPrefix
	}
	if jc.TicketStart != nil {
		cfg.TicketStart = *jc.TicketStart
	}
	if jc.PasswordSalt != nil {
		cfg.PasswordSalt = *jc.PasswordSalt
	}
	if jc.Iterations != nil {
		cfg.Iterations = *jc.Iterations
	}
	if jc.IntakeCommand != nil {
		cfg.IntakeCommand = *jc.IntakeCommand
	}
}
