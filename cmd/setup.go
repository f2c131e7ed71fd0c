package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/desertthunder/markx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when it does not exist and, if run history
// is enabled, initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		if config, err = shared.LoadConfig(configPath); err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		r.configure(config)
		r.writePlain("✓ Created %s\n", configPath)
	} else {
		r.writePlain("✓ Using existing %s\n", configPath)
	}

	if config.Database.Path == "" {
		r.logger.Info("run history disabled, skipping database setup")
		r.writePlain("Run history is disabled. Set database.path in %s to record runs.\n", configPath)
		return nil
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Run history ready at %s\n", config.Database.Path)
	return nil
}
