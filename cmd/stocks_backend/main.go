package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/clients/alphavantage"
	"github.com/SscSPs/stock_insights_api/internal/clients/exchangerateapi"
	"github.com/SscSPs/stock_insights_api/internal/clients/fixer"
	"github.com/SscSPs/stock_insights_api/internal/clients/gemini"
	"github.com/SscSPs/stock_insights_api/internal/core/services"
	"github.com/SscSPs/stock_insights_api/internal/handlers"
	"github.com/SscSPs/stock_insights_api/internal/middleware"
	"github.com/SscSPs/stock_insights_api/internal/platform/config"
	"github.com/SscSPs/stock_insights_api/internal/platform/metrics"
	"github.com/SscSPs/stock_insights_api/internal/platform/scheduler"
	"github.com/SscSPs/stock_insights_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/stock_insights_api/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Stock Insights API
// @version 1.0
// @description Cached exchange rates, stock fundamentals and AI analysis.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin password.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(registry)

	upstream, err := buildUpstreamProviders(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize upstream clients", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, upstream, appMetrics)

	apiLimiter, err := middleware.NewIPRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, metrics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(),
		middleware.Preflight(),
		middleware.RequestMetrics(appMetrics),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	handlers.RegisterRoutes(r, cfg, serviceContainer, metricsHandler, apiLimiter)

	jobs := scheduler.New(serviceContainer.Stock, serviceContainer.ExchangeRate, logger)
	if err := jobs.Register(cfg.StockRefreshCron, cfg.RateBackfillCron); err != nil {
		logger.Error("Failed to schedule jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	jobs.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	jobs.Stop(shutdownCtx)
}

// buildUpstreamProviders creates a client per configured key. Clients without a key stay nil.
func buildUpstreamProviders(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.UpstreamProviders, error) {
	upstream := services.UpstreamProviders{
		LatestRates: exchangerateapi.NewClient(
			exchangerateapi.WithBaseURL(cfg.LiveRateBaseURL),
			exchangerateapi.WithLogger(logger),
		),
	}

	if cfg.FixerAPIKey != "" {
		upstream.HistoricalRates = fixer.NewClient(cfg.FixerAPIKey,
			fixer.WithBaseURL(cfg.FixerBaseURL),
			fixer.WithLogger(logger),
		)
	}
	if cfg.AlphaVantageKey != "" {
		upstream.Quotes = alphavantage.NewClient(cfg.AlphaVantageKey,
			alphavantage.WithBaseURL(cfg.AlphaVantageBaseURL),
			alphavantage.WithLogger(logger),
		)
	}
	if cfg.GeminiAPIKey != "" {
		llm, err := gemini.NewClient(ctx, cfg.GeminiAPIKey,
			gemini.WithModel(cfg.GeminiModel),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return upstream, err
		}
		upstream.Completion = llm
	}
	return upstream, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
