package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zimstream/stream-ops-service/internal/config"
	"github.com/zimstream/stream-ops-service/internal/handler"
	"github.com/zimstream/stream-ops-service/internal/logger"
	"github.com/zimstream/stream-ops-service/internal/repository"
	"github.com/zimstream/stream-ops-service/internal/service"
	"github.com/zimstream/stream-ops-service/internal/store"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	storeClient, err := store.NewClient(store.Config{
		Endpoint:   cfg.Store.Endpoint,
		ProjectID:  cfg.Store.ProjectID,
		DatabaseID: cfg.Store.DatabaseID,
		APIKey:     cfg.Store.APIKey,
		Timeout:    time.Duration(cfg.Store.TimeoutSec) * time.Second,
	}, appLogger)
	if err != nil {
		log.Fatalf("❌ Store client initialization failed: %v", err)
	}

	repos := repository.New(storeClient, appLogger)

	standingsSvc := service.NewStandingsService(repos, appLogger)
	analyticsSvc := service.NewAnalyticsService(repos, repos.Sessions, repos.Transactions, appLogger)
	catalogSvc := service.NewCatalogService(repos, appLogger)
	seedSvc := service.NewSeedService(repos, appLogger)
	refresher := service.NewRefresher(
		standingsSvc,
		repos.Results,
		time.Duration(cfg.Refresh.IntervalSec)*time.Second,
		time.Duration(cfg.Refresh.PollSec)*time.Second,
		appLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go refresher.Run(ctx)

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Register(engine, repos, standingsSvc, refresher, analyticsSvc, catalogSvc, seedSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
	appLogger.Info().Msg("✅ Shutdown complete")
}
