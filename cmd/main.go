package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gzanee/skyscanner/internal/services"
	"github.com/gzanee/skyscanner/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := shared.DefaultConfigPath()
	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		configPath = "config.toml"
	}
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	if level, err := log.ParseLevel(config.Logging.Level); err == nil {
		shared.SetLogLevel(logger, level)
	}

	flights := services.NewFlightsService(config.API.BaseURL, nil)
	if rps := config.API.AirportRequestsPerSecond; rps > 0 {
		flights.SetAirportRate(rps, int(rps)+1)
	}
	if rps := config.API.SearchRequestsPerSecond; rps > 0 {
		flights.SetSearchRate(rps, 1)
	}

	apiService := services.NewAPIService(config.API.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Flights:    flights,
		API:        apiService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "skyscan",
		Usage:    "Search flights from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
