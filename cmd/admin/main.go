package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lojaviva/admin-api-go/internal/config"
	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/handler"
	"github.com/lojaviva/admin-api-go/internal/infra/cache"
	"github.com/lojaviva/admin-api-go/internal/infra/client"
	"github.com/lojaviva/admin-api-go/internal/infra/observability"
	"github.com/lojaviva/admin-api-go/internal/infra/resilience"
	"github.com/lojaviva/admin-api-go/internal/infra/supabase"
	"github.com/lojaviva/admin-api-go/internal/port"
	"github.com/lojaviva/admin-api-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("dispatch_interval", cfg.DispatchInterval),
	)

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "lojaviva-admin-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	productCache := cache.New[[]domain.Product](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("supabase")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cfg.StorageBucket,
		cb,
		resilienceCfg,
		logger,
	)

	var push port.PushSender
	if cfg.PushAPIURL != "" {
		push = client.NewPushClient(httpClient, cfg.PushAPIURL, cfg.PushAPIKey,
			resilience.NewCircuitBreaker("push-gateway"), resilienceCfg, logger)
		logger.Info("push delivery enabled", zap.String("push_api_url", cfg.PushAPIURL))
	} else {
		logger.Warn("push delivery: PUSH_API_URL not configured, notifications are recorded but not delivered")
	}

	// --- Services ---
	financeSvc := service.NewFinanceService(store, metrics, logger)
	reportSvc := service.NewReportService(financeSvc, metrics, logger)
	promotionSvc := service.NewPromotionService(store, logger)
	catalogSvc := service.NewCatalogService(store, store, productCache, logger)
	notificationSvc := service.NewNotificationService(store, store, push, metrics, logger)
	settingsSvc := service.NewSettingsService(store, store, logger)
	dashboardSvc := service.NewDashboardService(store, store, promotionSvc, financeSvc, logger)

	dispatcher := service.NewDispatcher(store, store, notificationSvc, metrics, logger, cfg.DispatchInterval)

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Catalog:       catalogSvc,
		Finance:       financeSvc,
		Reports:       reportSvc,
		Promotions:    promotionSvc,
		Notifications: notificationSvc,
		Settings:      settingsSvc,
		Dashboard:     dashboardSvc,
	}, metrics, cfg.JWTSecret, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Background dispatcher ---
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		if err := dispatcher.Run(dispatchCtx); err != nil && err != context.Canceled {
			logger.Error("dispatcher stopped", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	stopDispatch()
	<-dispatchDone

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
