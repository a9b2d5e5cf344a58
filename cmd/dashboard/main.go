package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/agentic-platform/insights/internal/app"
	"github.com/agentic-platform/insights/internal/dashboard"
	"github.com/agentic-platform/insights/internal/dashboard/export"
	dashboardhttp "github.com/agentic-platform/insights/internal/dashboard/http"
	"github.com/agentic-platform/insights/internal/observability"
	"github.com/agentic-platform/insights/internal/platform/cache"
	"github.com/agentic-platform/insights/internal/view"
	"github.com/agentic-platform/insights/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, rendering without cache", slog.Any("error", err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	service, err := app.NewDashboardService(ctx, cfg, logger, metrics, redisClient)
	if err != nil {
		logger.Error("init dashboard", slog.Any("error", err))
		os.Exit(1)
	}
	if redisClient != nil {
		if err := dashboard.NewCache(redisClient, cfg.CacheTTL).ListenForInvalidation(ctx, dashboard.BumpChannel); err != nil {
			logger.Warn("subscribe cache invalidation", slog.Any("error", err))
		}
	}

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	handlerOpts := []dashboardhttp.Option{
		dashboardhttp.WithExportObserver(metrics),
		dashboardhttp.WithExportLimit(cfg.ExportRateLimit),
	}
	if cfg.GotenbergURL != "" {
		pdf := export.NewPDFExporter(cfg.GotenbergURL)
		if err := pdf.Ping(ctx); err != nil {
			logger.Warn("gotenberg unreachable, pdf export will fail until it is up", slog.Any("error", err))
		}
		handlerOpts = append(handlerOpts, dashboardhttp.WithPDF(pdf))
	}
	dashboardHandler := dashboardhttp.NewHandler(logger, service, templates, handlerOpts...)

	var jobsHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("asynq inspector close", slog.Any("error", err))
			}
		}()
		jobsHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:    logger,
		Config:    cfg,
		Dashboard: dashboardHandler,
		Metrics:   metrics,
		Jobs:      jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.Bool("cache", redisClient != nil))
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
