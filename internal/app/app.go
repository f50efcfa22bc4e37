// Package app wires configuration, storage and services together for the
// server and the command line tool.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/nitesh-dev/gymmora-sub000/internal/cache"
	"github.com/nitesh-dev/gymmora-sub000/internal/config"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository/mongo"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository/sqlite"
	"github.com/nitesh-dev/gymmora-sub000/internal/service"
	"github.com/nitesh-dev/gymmora-sub000/internal/storage"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/metrics"
)

// Backend is a store that also serves the exercise catalog. Both backends are.
type Backend interface {
	repository.Store
	repository.ExerciseCatalog
}

// OpenStore connects the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		store, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database %s: %w", cfg.Path, err)
		}
		log.Infof("using sqlite database %s", cfg.Path)
		return store, nil

	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		store := mongo.NewStore(client, client.Database(cfg.Name))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, err
		}
		log.Infof("using mongodb database %s", cfg.Name)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// App holds every long-lived collaborator.
type App struct {
	Config   config.Config
	Store    Backend
	Catalog  *cache.CatalogCache
	Metrics  *metrics.Manager
	Registry *prometheus.Registry

	Programs  service.ProgramService
	Imports   service.ImportService
	Sessions  service.SessionService
	Analytics service.AnalyticsService
}

// Option adjusts an App before its services are built.
type Option func(*options)

type options struct {
	store       Backend
	fileStorage storage.FileStorage
	subsystem   string
}

// WithStore uses an already opened backend instead of opening one from config.
func WithStore(store Backend) Option {
	return func(o *options) { o.store = store }
}

// WithFileStorage replaces the S3 storage built from config.
func WithFileStorage(fs storage.FileStorage) Option {
	return func(o *options) { o.fileStorage = fs }
}

// WithMetricsSubsystem names the metrics subsystem. Defaults to "server".
func WithMetricsSubsystem(subsystem string) Option {
	return func(o *options) { o.subsystem = subsystem }
}

// New builds the application from cfg.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{subsystem: "server"}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Analytics.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid analytics timezone %q: %w", cfg.Analytics.Timezone, err)
	}

	store := o.store
	if store == nil {
		store, err = OpenStore(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
	}

	fileStorage := o.fileStorage
	if fileStorage == nil && cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
	}

	registry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("gymmora", o.subsystem, registry)
	catalog := cache.NewCatalogCache(store, cfg.Catalog.CacheTTL)

	programs := service.NewProgramService(store, catalog)
	a := &App{
		Config:    cfg,
		Store:     store,
		Catalog:   catalog,
		Metrics:   metricsManager,
		Registry:  registry,
		Programs:  programs,
		Imports:   service.NewImportService(programs, fileStorage, metricsManager),
		Analytics: service.NewAnalyticsService(store, catalog, loc, cfg.Analytics.TopMuscleGroups),
		Sessions: service.NewSessionService(store, programs, catalog, service.SessionOptions{
			TickInterval: cfg.Session.TickInterval,
			AutoTick:     cfg.Session.AutoTick,
			Metrics:      metricsManager,
		}),
	}
	return a, nil
}

// Close drops unfinished sessions and closes the store.
func (a *App) Close(ctx context.Context) error {
	a.Sessions.Shutdown()
	a.Catalog.Flush()
	return a.Store.Close(ctx)
}
