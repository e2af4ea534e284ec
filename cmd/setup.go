package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviesync/internal/shared"
)

// SetupDatabase writes a config file from the template when none exists, then creates the store and its schema.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err := shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
			} else {
				r.config = config
			}
		}
	}

	path := r.databasePath(cmd)
	r.logger.Info("initializing database", "path", path)

	if err := r.newSynchronizer(path).Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", path)
	return nil
}

// SetupRollback rolls back the most recent schema migration of the store.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	path := r.databasePath(cmd)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: database %s does not exist", shared.ErrInvalidArgument, path)
	}

	db, err := shared.NewDatabase(path, shared.WithBusyTimeout(r.config.Database.BusyTimeoutMS))
	if err != nil {
		return &shared.StoreError{Op: "open", Path: path, Err: err}
	}
	defer db.Close()

	version, ok, err := shared.CurrentVersion(ctx, db)
	if err != nil {
		return &shared.StoreError{Op: "read", Path: path, Err: err}
	}
	if !ok {
		return fmt.Errorf("%w: no migrations applied to %s", shared.ErrInvalidArgument, path)
	}

	if err := shared.RollbackMigration(ctx, db); err != nil {
		return &shared.StoreError{Op: "migrate", Path: path, Err: err}
	}

	r.logger.Info("rolled back migration", "version", version, "path", path)
	return nil
}
