package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cipherstudio/studio/config"
	"github.com/cipherstudio/studio/internal/bootstrap"
	"github.com/cipherstudio/studio/internal/logging"
	"github.com/cipherstudio/studio/internal/maintenance"
	"github.com/cipherstudio/studio/internal/projects"
)

const serviceName = "cipherstudio-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Warn("redis unavailable, running without a cache", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	sweeper := maintenance.NewSweeper(projects.NewRepo(db), cfg.Maintenance.OrphanMaxAge, cfg.Maintenance.PurgeOrphans, log)
	if err := sweeper.Start(cfg.Maintenance.SweepSchedule); err != nil {
		log.Fatal("start orphan sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		DB:             db,
		Redis:          rdb,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
