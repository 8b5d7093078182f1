package main

import (
	"fmt"
	"os"

	"merchant-dashboard/app"
	"merchant-dashboard/config"
	"merchant-dashboard/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Common.ServiceName, cfg.Common.LogLevel)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
