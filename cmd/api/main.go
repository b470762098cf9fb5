// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/infrastructure/database/postgres"
	"github.com/bayt-organic/storefront/internal/infrastructure/database/redis"
	"github.com/bayt-organic/storefront/internal/interfaces/http"
	"github.com/bayt-organic/storefront/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg)
	logg.WithField("version", cfg.App.Version).
		WithField("environment", cfg.App.Environment).
		Infof("starting %s", cfg.App.Name)

	db, err := postgres.NewConnection(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), cfg.Security.BcryptCost, logg)

	if err := migration.RunAutoMigrations(); err != nil {
		logg.WithError(err).Fatal("database migration failed")
	}

	if err := migration.CreateIndexes(); err != nil {
		logg.WithError(err).Warn("index creation failed")
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			logg.WithError(err).Warn("data seeding failed")
		}
	}

	server := http.NewServer(cfg, db, redisClient, logg)

	go func() {
		if err := server.Start(); err != nil {
			logg.WithError(err).Fatal("failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logg.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}

	logg.Info("server shutdown completed")
}
