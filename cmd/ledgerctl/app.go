package main

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/cache"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
)

// app bundles the connections a command needs.
type app struct {
	cfg      *config.Config
	database *db.Database
	redis    *redis.Client
	injector *dependency.Injector
}

func openApp() (*app, error) {
	cfg := config.Load()

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a := &app{cfg: cfg, database: database}

	if cfg.Redis.URL != "" {
		a.redis, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	a.injector, err = dependency.NewInjector(cfg, database.DB(), a.redis, database.HealthCheck)
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if a.injector != nil {
		a.injector.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}
	if err := a.database.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}
