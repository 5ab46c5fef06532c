// Package app assembles the record service and its collaborators from
// configuration. The server, the worker and the CLI all start here.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"spese/internal/backend"
	"spese/internal/cache"
	"spese/internal/config"
	"spese/internal/log"
	"spese/internal/rates"
	"spese/internal/report"
	"spese/internal/services"
	"spese/internal/storage"
)

// sweepInterval is how often expired cache entries are dropped.
const sweepInterval = time.Minute

// App is a wired record service with its rate provider and caches.
type App struct {
	Config  *config.Config
	Records *services.RecordService
	Rates   *rates.Provider
	Store   storage.RecordStore
	Events  services.EventPublisher
	Caches  *cache.Manager

	logger  *log.Logger
	cleanup backend.CleanupFunc
}

// New validates cfg and builds the backend, rate provider and service.
// Close must be called to release the backend.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	logger = log.OrDefault(logger, log.ComponentApp)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, err
	}

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache))

	var source rates.Source
	if cfg.LiveRates() {
		responses := cache.NewLRUCache[[]byte](cfg.CacheSize, cfg.CacheTTL)
		caches.Register(responses)
		source = rates.NewLiveSource(cfg.RatesURL, cfg.RatesAPIKey, cfg.RatesTimeout, responses, logger.WithComponent(log.ComponentRates))
	}
	provider := rates.NewProvider(rates.StaticTable(), source, cfg.RatesTimeout, logger.WithComponent(log.ComponentRates))

	reports := cache.NewLRUCache[report.Report](cfg.CacheSize, cfg.CacheTTL)
	caches.Register(reports)

	svc := services.NewRecordService(services.Options{
		Store:        result.Store,
		Rates:        provider,
		BaseCurrency: cfg.BaseCurrency,
		Events:       result.Events,
		Reports:      reports,
		Logger:       logger.WithComponent(log.ComponentRecords),
	})

	return &App{
		Config:  cfg,
		Records: svc,
		Rates:   provider,
		Store:   result.Store,
		Events:  result.Events,
		Caches:  caches,
		logger:  logger,
		cleanup: result.Cleanup,
	}, nil
}

// Ready reports whether the store answers.
func (a *App) Ready(ctx context.Context) error {
	if p, ok := a.Store.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// RunBackground refreshes live rates and sweeps caches until ctx is
// cancelled. Without a live endpoint only the sweeper runs.
func (a *App) RunBackground(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if a.Rates.Live() {
		g.Go(func() error { return a.Rates.Run(ctx, a.Config.RatesRefreshInterval) })
	}
	g.Go(func() error { return a.Caches.Run(ctx, sweepInterval) })
	return g.Wait()
}

// Close releases the backend.
func (a *App) Close() error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup()
}
