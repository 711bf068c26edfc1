// Command inflammation-server exposes the inflammation analyses over HTTP.
// Configuration comes from inflammation.yaml (or --config) and INFLAMMATION_*
// environment variables.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"inflammation/internal/app"
	"inflammation/internal/config"
	"inflammation/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "", "YAML configuration file (default $INFLAMMATION_CONFIG or inflammation.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return config.LoadFile(path)
}
