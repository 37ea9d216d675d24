package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tesoro-admin/tesoro/internal/app"
	"github.com/tesoro-admin/tesoro/internal/catalog"
	"github.com/tesoro-admin/tesoro/internal/movement"
	"github.com/tesoro-admin/tesoro/internal/observability"
	"github.com/tesoro-admin/tesoro/internal/platform/store"
	"github.com/tesoro-admin/tesoro/internal/projection"
	"github.com/tesoro-admin/tesoro/internal/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The report cache degrades to pass-through; catalog caching is
		// in-process and unaffected.
		logger.Warn("redis ping", slog.Any("error", err))
	}

	storeClient := store.NewClient(cfg.StoreBaseURL, cfg.StoreTimeout,
		store.WithFailureHook(metrics.ObserveStoreFailure))

	catalogRepo := catalog.NewRepository(storeClient, cfg.CatalogTTL)
	catalogMutator := catalog.NewMutator(storeClient, catalogRepo)
	reportCache := report.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := report.NewService(storeClient, catalogRepo, reportCache, logger)
	movementService := movement.NewService(storeClient, reportCache, logger)
	projectionService := projection.NewService(storeClient, logger, metrics)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		CatalogHandler:    catalog.NewHandler(logger, catalogRepo, catalogMutator),
		MovementHandler:   movement.NewHandler(logger, movementService),
		ProjectionHandler: projection.NewHandler(logger, projectionService),
		ReportHandler:     report.NewHandler(logger, reportService),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
