package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/estorelabs/storefront/internal/cart"
	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/navigation"
	"github.com/estorelabs/storefront/internal/query"
	"github.com/estorelabs/storefront/internal/session"
	"github.com/estorelabs/storefront/internal/storage"
	"github.com/estorelabs/storefront/pkg/config"
	"github.com/estorelabs/storefront/pkg/logger"
	"github.com/estorelabs/storefront/pkg/metrics"
)

// logNavigator routes failure views to the log; a real frontend would swap in
// a view-layer implementation.
type logNavigator struct {
	logg *logger.Logger
}

func (n *logNavigator) ShowFailure(message string) {
	n.logg.Warn(n.logg.WithField(context.Background(), "message", message), "navigating to failure view")
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	backend, cleanup, err := newBackend(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to open storage backend", err)
		os.Exit(1)
	}
	defer cleanup()

	client, err := catalog.NewClient(cfg.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to build catalog client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	cartStore, err := cart.NewStore(backend, logg, metrics.NewCartMetrics(registry))
	if err != nil {
		logg.Error(ctx, "failed to build cart store", err)
		os.Exit(1)
	}
	sessionStore, err := session.NewStore(backend, cartStore, logg)
	if err != nil {
		logg.Error(ctx, "failed to build session store", err)
		os.Exit(1)
	}

	bar := navigation.NewHistory()
	controller, err := query.NewController(client, bar, &logNavigator{logg: logg}, logg, metrics.NewQueryMetrics(registry))
	if err != nil {
		logg.Error(ctx, "failed to build query controller", err)
		os.Exit(1)
	}

	// Boot sequence: rehydrate persisted state, then resolve the initial
	// query from the address bar.
	cartStore.Initialize(ctx)
	sessionStore.Initialize(ctx)
	controller.Activate(ctx)
	controller.Wait()

	state := controller.Snapshot()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"driver":   cfg.Storage.Driver,
		"mode":     string(state.Mode),
		"results":  len(state.Results),
		"cart":     len(cartStore.Snapshot().Items),
		"loggedIn": sessionStore.Snapshot().IsAuthenticated,
	})
	logg.Info(ctx, "storefront state ready")
}

func newBackend(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return storage.NewMemory(), func() {}, nil
	case config.StorageDriverSQLite:
		store, err := storage.NewSQLite(cfg.Storage.Path, cfg.Storage.Origin)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case config.StorageDriverRedis:
		store, err := storage.NewRedis(ctx, cfg.Redis, cfg.Storage.Origin)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
