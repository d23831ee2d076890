// Command worker consumes parse jobs from the queue and runs the
// extraction and scoring pipeline.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talentsift/resume-parser/internal/adapter/ai"
	"github.com/talentsift/resume-parser/internal/adapter/observability"
	"github.com/talentsift/resume-parser/internal/adapter/queue/redpanda"
	"github.com/talentsift/resume-parser/internal/adapter/repo/postgres"
	"github.com/talentsift/resume-parser/internal/config"
	"github.com/talentsift/resume-parser/internal/domain"
	"github.com/talentsift/resume-parser/internal/parser"
	"github.com/talentsift/resume-parser/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	// Dedicated /metrics endpoint so Prometheus can scrape job metrics.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	pool, err := postgres.NewPool(context.Background(), cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewResumeRepo(pool)

	heuristic, err := parser.New()
	if err != nil {
		slog.Error("heuristic parser init failed", slog.Any("error", err))
		os.Exit(1)
	}

	var aiExtractor domain.ResumeExtractor
	if cfg.AIEnabled() {
		client := ai.NewClient(cfg)
		aiExtractor = ai.NewExtractor(client, cfg.AIModel, cfg.AIPromptTokenBudget)
		slog.Info("ai extraction enabled", slog.String("model", cfg.AIModel), slog.Bool("required", cfg.AIRequired))
	} else {
		slog.Info("no ai key configured, heuristic extraction only")
	}

	parseSvc := usecase.NewParseService(repo, usecase.NewOrchestrator(aiExtractor, heuristic, cfg.AIRequired))

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, &redpanda.ParseHandler{Runner: parseSvc}, cfg.ParseJobTimeout)
	if err != nil {
		slog.Error("consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = consumer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("worker shut down")
}
