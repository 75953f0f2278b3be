package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gzanee/skyscanner/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the config file from the embedded template and initializes
// the history database it points at.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = r.configPath
	}

	if cmd.Bool("force") {
		if _, err := os.Stat(configPath); err == nil {
			if err := os.Remove(configPath); err != nil {
				return fmt.Errorf("failed to remove existing config: %w", err)
			}
			r.logger.Info("replacing existing config", "path", configPath)
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	r.config = config
	r.configPath = configPath

	if config.Storage.Path == "" {
		r.logger.Info("no history database configured, skipping")
		return nil
	}

	r.logger.Info("initializing history database", "path", config.Storage.Path)
	db, err := shared.OpenDatabase(config.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r.writePlain("✓ Config ready at %s\n", configPath)
	r.writePlain("✓ History database ready at %s\n", config.Storage.Path)
	return nil
}

// SetupShow prints the active configuration as TOML.
func (r *Runner) SetupShow(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader(fmt.Sprintf("Configuration (%s)", r.configPath))

	if err := toml.NewEncoder(r.output).Encode(r.config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
