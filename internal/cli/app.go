package cli

import (
	"context"
	"fmt"

	"timesheet/internal/backend"
	"timesheet/internal/cache"
	"timesheet/internal/config"
	"timesheet/internal/events"
	"timesheet/internal/log"
	"timesheet/internal/services"
)

// App wires a backend, the change feed and the services built on them.
type App struct {
	Config    *config.Config
	Store     *backend.BackendResult
	Broker    *events.Broker
	Stats     *services.Aggregator
	Timesheet *services.TimesheetService
	Accounts  *services.AccountService
	Career    *services.CareerService

	caches *cache.Manager
	logger *log.Logger
}

// NewApp opens the configured backend and builds the services. The caller
// owns the result and must Close it.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Discard()
	}

	utilization, err := services.GetUtilizationPolicy(cfg.UtilizationPolicy)
	if err != nil {
		return nil, err
	}
	monthly, err := services.GetMonthlyPolicy(cfg.MonthlyPolicy)
	if err != nil {
		return nil, err
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}
	db := store.Backend

	broker := events.NewBroker(logger)
	agg := services.NewAggregator(db, db, db, services.AggregatorConfig{
		Utilization: utilization,
		Monthly:     monthly,
		CacheSize:   cfg.StatsCacheSize,
		CacheTTL:    cfg.StatsCacheTTL,
	}, logger)
	agg.Subscribe(broker)

	caches := cache.NewManager(logger)
	caches.Register(agg.Cache())
	caches.StartCleanup(cfg.StatsCacheTTL)

	logger.InfoContext(ctx, "Application initialized",
		"backend", bcfg.Type,
		"utilization_policy", cfg.UtilizationPolicy,
		"monthly_policy", cfg.MonthlyPolicy,
		log.FieldOperation, log.OpStartup)

	return &App{
		Config:    cfg,
		Store:     store,
		Broker:    broker,
		Stats:     agg,
		Timesheet: services.NewTimesheetService(db, db, db, broker, logger),
		Accounts:  services.NewAccountService(db, db, broker, logger),
		Career:    services.NewCareerService(db, db, logger),
		caches:    caches,
		logger:    logger,
	}, nil
}

// Pinger returns the backend's readiness check, or nil when it has none.
func (a *App) Pinger() backend.Pinger {
	if p, ok := a.Store.Backend.(backend.Pinger); ok {
		return p
	}
	return nil
}

// Close stops the cache cleanup, closes the change feed and releases the backend.
func (a *App) Close() error {
	a.caches.Stop()
	a.Broker.Close()
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}
