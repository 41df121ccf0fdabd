package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/desertthunder/comix/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Logging.Level))

	db, err := openDatabase(config)
	if err != nil {
		logger.Warn("session storage unavailable, sign-ins will not be remembered", "error", err)
	} else {
		defer db.Close()
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
		DB:         db,
	})

	app := &cli.Command{
		Name:     "comix",
		Usage:    "Manage your comic library from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrNoSession):
			logger.Error("not signed in, run 'comix auth login' first")
			os.Exit(1)
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}

// openDatabase opens the session database and applies pending migrations.
func openDatabase(config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
