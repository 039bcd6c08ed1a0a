package main

import (
	"context"
	"fmt"

	"github.com/jonathan/portfolio-keeper/internal/autosave"
	"github.com/jonathan/portfolio-keeper/internal/config"
	"github.com/jonathan/portfolio-keeper/internal/fixtures"
	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/persistence"
	"github.com/jonathan/portfolio-keeper/internal/transfer"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// app bundles the resolved configuration with an open store.
type app struct {
	cfg     config.Config
	log     *logging.Logger
	store   kv.Store
	gateway *persistence.Gateway
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}
	if storeFlag != "" {
		cfg.Store = storeFlag
	}
	if storeDir != "" {
		cfg.StoreDir = storeDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := kv.Open(ctx, cfg.StoreOptions(log))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}
	log.Debug("Store opened", "backend", cfg.Store, "dir", cfg.StoreDir)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		gateway: persistence.NewGateway(store, cfg.GatewayOptions(log)),
	}, nil
}

func (a *app) load(ctx context.Context) (types.PortfolioRecord, persistence.Source) {
	return a.gateway.Loader().LoadWithSource(ctx, fixtures.Default())
}

// service returns an import/clear service over a coordinator seeded with the stored record.
func (a *app) service(ctx context.Context) (*transfer.Service, *autosave.Coordinator) {
	current, _ := a.load(ctx)
	coord := autosave.NewCoordinator(current, a.gateway, autosave.WithLogger(a.log))
	return transfer.NewService(coord, fixtures.Default, a.log), coord
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("Failed to close store", "error", err)
	}
	a.log.Sync()
}
