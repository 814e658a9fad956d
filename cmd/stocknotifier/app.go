package main

import (
	"fmt"
	"io"

	"github.com/aleister1102/stocknotifier/internal/config"
	"github.com/aleister1102/stocknotifier/internal/datastore"
	"github.com/aleister1102/stocknotifier/internal/logger"
	"github.com/rs/zerolog"
)

const envConfigPathHint = config.ConfigPathEnv

// app bundles what every subcommand needs.
type app struct {
	cfg    *config.GlobalConfig
	logger zerolog.Logger
}

func loadApp(opts *rootOptions, logOutput io.Writer) (*app, error) {
	cfg, err := config.LoadGlobalConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	built, err := logger.NewLoggerBuilder().
		WithConfig(cfg.LogConfig).
		WithConsoleOutput(logOutput).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &app{cfg: cfg, logger: *built.GetZerolog()}, nil
}

func (a *app) openStore() (*datastore.Store, error) {
	store, err := datastore.NewStore(a.cfg.StorageConfig.SQLiteDBPath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open product database: %w", err)
	}
	return store, nil
}
