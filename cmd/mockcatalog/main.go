package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/estorelabs/storefront/api/routes"
	"github.com/estorelabs/storefront/internal/mockcatalog"
	"github.com/estorelabs/storefront/pkg/config"
	"github.com/estorelabs/storefront/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "mockcatalog"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "mockcatalog",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	addr := ":" + cfg.Server.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting mock catalog server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, mockcatalog.NewSeededRepo()),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "mock catalog server stopped unexpectedly", err)
		os.Exit(1)
	}
}
