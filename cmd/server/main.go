// Command server starts the resume parsing HTTP API.
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

	"log/slog"

	"github.com/talentsift/resume-parser/internal/adapter/ai"
	redcache "github.com/talentsift/resume-parser/internal/adapter/cache/redis"
	"github.com/talentsift/resume-parser/internal/adapter/httpserver"
	"github.com/talentsift/resume-parser/internal/adapter/observability"
	"github.com/talentsift/resume-parser/internal/adapter/queue/redpanda"
	"github.com/talentsift/resume-parser/internal/adapter/repo/postgres"
	"github.com/talentsift/resume-parser/internal/app"
	"github.com/talentsift/resume-parser/internal/config"
	"github.com/talentsift/resume-parser/internal/extract"
	"github.com/talentsift/resume-parser/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewResumeRepo(pool)

	producer, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close queue client", slog.Any("error", err))
		}
	}()

	// Redis is optional; without it results are always read from Postgres.
	cache := redcache.New(redcache.NewClient(cfg.RedisAddr))
	var resultCache usecase.ResultCache
	if cache != nil {
		resultCache = cache
	}

	uploadSvc := usecase.NewUploadService(repo, producer, extract.New(), cfg.MaxUploadBytes())
	resultSvc := usecase.NewResultService(repo, resultCache, cfg.ResultCacheTTL)

	var enhanceSvc usecase.EnhanceService
	if cfg.AIEnabled() {
		client := ai.NewClient(cfg)
		enhanceSvc = usecase.NewEnhanceService(ai.NewEnhancer(client))
	} else {
		enhanceSvc = usecase.NewEnhanceService(nil)
	}

	dbCheck, redisCheck, kafkaCheck := app.BuildReadinessChecks(pool, cache, producer)
	srv := httpserver.NewServer(cfg, uploadSvc, resultSvc, enhanceSvc, dbCheck, redisCheck, kafkaCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
