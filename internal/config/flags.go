package config

import (
	"flag"
	"os"

	"github.com/civicseva/grievance/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string       data directory holding all flat files
//	-u string       credential file name
//	-s string       session handoff file name
//	-l string       master ledger file name
//	-prefix string  ticket ID prefix
//	-start int      first ticket number
//	-intake string  intake executable started after login
//	-v              verbose (debug) logging
//
// The function filters os.Args down to the flags it knows about, using
// flagx.FilterArgs, so the -c/-config flag handled by the JSON layer does not
// interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-d", "-u", "-s", "-l", "-prefix", "-start", "-intake", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.UsersFile, "u", cfg.UsersFile, "credential file name")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "session handoff file name")
	fs.StringVar(&cfg.LedgerFile, "l", cfg.LedgerFile, "master ledger file name")
	fs.StringVar(&cfg.TicketPrefix, "prefix", cfg.TicketPrefix, "ticket ID prefix")
	fs.IntVar(&cfg.TicketStart, "start", cfg.TicketStart, "first ticket number")
	fs.StringVar(&cfg.IntakeCommand, "intake", cfg.IntakeCommand, "intake executable")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
