package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/civicseva/grievance/internal/auth"
	"github.com/civicseva/grievance/internal/buildinfo"
	"github.com/civicseva/grievance/internal/config"
	"github.com/civicseva/grievance/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	app, err := auth.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
