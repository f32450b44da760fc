// README: Entry point; wires config, stores, services and the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxibordeaux/internal/cache"
	"taxibordeaux/internal/config"
	"taxibordeaux/internal/geo"
	"taxibordeaux/internal/geocache"
	httpserver "taxibordeaux/internal/http"
	"taxibordeaux/internal/infra"
	"taxibordeaux/internal/logging"
	"taxibordeaux/internal/maildispatch"
	"taxibordeaux/internal/tariff"
)

func main() {
	cfg, err := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password)
	defer redisClient.Close()
	store := cache.NewRedisStore(redisClient)

	var db *pgxpool.Pool
	if cfg.DB.DSN != "" {
		db, err = infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	rates := cfg.Tariff
	if db != nil {
		loaded, found, err := tariff.NewStore(db).LoadRates(ctx, time.Now().Year(), cfg.Tariff)
		if err != nil {
			logger.Warn("rate override lookup failed, using defaults", "err", err)
		} else if found {
			logger.Info("loaded rate override", "year", time.Now().Year())
			rates = loaded
		}
	}
	tariffSvc := tariff.NewService(rates, cfg.Zones, store, logger)

	provider, err := geo.NewGoogleProvider(cfg.Geo.MapsAPIKey)
	if err != nil {
		logger.Error("maps client init failed", "err", err)
		os.Exit(1)
	}
	quota := geocache.NewQuotaCounter(cfg.Geo.DailyQuota)
	geoSvc := geocache.NewService(cfg.Geo, store, provider, quota, tariffSvc, logger)

	var mailStore *maildispatch.Store
	if db != nil {
		mailStore = maildispatch.NewStore(db)
	}
	mailSvc := maildispatch.NewService(
		maildispatch.NewSMTPProvider(cfg.Mail),
		mailStore,
		cfg.Mail.From,
		cfg.Mail.OpsMailbox,
		cfg.Mail.MaxAttempts,
		cfg.Mail.SendSpacing,
		logger,
	)

	server := httpserver.NewServer(httpserver.ServerDeps{
		Tariff: tariffSvc,
		Geo:    geoSvc,
		Mail:   mailSvc,
		GeoCfg: cfg.Geo,
		Logger: logger,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "err", err)
	}
}
