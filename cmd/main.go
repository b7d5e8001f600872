package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"argus/internal/adapters/ai"
	"argus/internal/adapters/config"
	"argus/internal/adapters/errors/noop"
	"argus/internal/adapters/errors/sentry"
	"argus/internal/adapters/postgres"
	"argus/internal/adapters/telegram"
	"argus/internal/adapters/yahoo"
	"argus/internal/metrics"
	repo "argus/internal/repository/postgres"
	alertsvc "argus/internal/services/alerts"
	marketsvc "argus/internal/services/marketdata"
	"argus/internal/services/monitor"
	"argus/internal/services/notify"
	"argus/internal/services/rules"
	"argus/internal/workers"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := initLogger(cfg); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Database
	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pgClient.Close()

	// Repositories
	db := pgClient.DB()
	userRepo := repo.NewUserRepository(db)
	holdingRepo := repo.NewHoldingRepository(db)
	ruleRepo := repo.NewRuleRepository(db)
	alertRepo := repo.NewAlertRepository(db)
	settingsRepo := repo.NewNotificationRepository(db)
	cacheRepo := repo.NewMarketDataRepository(db)

	// Market data layer
	provider := yahoo.NewClient(yahoo.Config{
		BaseURL: cfg.MarketData.BaseURL,
		Timeout: cfg.MarketData.FetchTimeout,
	}, log)
	marketData := marketsvc.NewService(cacheRepo, provider, marketsvc.Config{
		PriceTTL:     cfg.MarketData.PriceTTL,
		RangeTTL:     cfg.MarketData.RangeTTL,
		FetchTimeout: cfg.MarketData.FetchTimeout,
		FetchWorkers: cfg.MarketData.FetchWorkers,
	}, log)

	// Core services
	engine := rules.NewEngine(holdingRepo, ruleRepo, marketData, log)
	generator := initContextGenerator(cfg, log)
	pipeline := alertsvc.NewService(alertRepo, ruleRepo, generator, marketData, log)
	telegramSender := initTelegramSender(cfg, log)
	monitorSvc := monitor.NewService(
		userRepo, settingsRepo, engine, pipeline,
		telegramSender, cfg.Telegram.ChatID, cfg.App.DefaultUserEmail, log,
	)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		metrics.Init()
		startMetricsServer(cfg.Metrics.Port, log)
	}

	// Workers
	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(workers.NewMonitorWorker(
		monitorSvc,
		cfg.Monitor.Interval,
		monitor.Options{UseAI: cfg.Monitor.UseAI, IgnoreCooldown: cfg.Monitor.IgnoreCooldown},
		cfg.Monitor.Enabled,
	))

	log.Info("System initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	waitForShutdown(ctx, cancel, scheduler, errorTracker, log)
}

// loadConfig loads application configuration from environment
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// initLogger initializes structured logging
func initLogger(cfg *config.Config) error {
	return logger.Init(cfg.App.LogLevel, cfg.App.Env)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initContextGenerator initializes AI alert enrichment when a key is present
func initContextGenerator(cfg *config.Config, log *logger.Logger) ai.ContextGenerator {
	if cfg.AI.OpenAIKey == "" {
		log.Info("AI enrichment disabled (no API key)")
		return nil
	}

	generator, err := ai.NewOpenAIGenerator(cfg.AI.OpenAIKey, cfg.AI.Model, cfg.AI.Timeout)
	if err != nil {
		log.Warnf("Failed to initialize AI generator: %v", err)
		return nil
	}

	log.Infof("AI enrichment enabled (model %s)", cfg.AI.Model)
	return generator
}

// initTelegramSender initializes the Telegram bot when a token is present
func initTelegramSender(cfg *config.Config, log *logger.Logger) notify.MessageSender {
	if cfg.Telegram.BotToken == "" {
		log.Info("Telegram notifications disabled (no bot token)")
		return nil
	}

	bot, err := telegram.NewBot(telegram.Config{Token: cfg.Telegram.BotToken}, log)
	if err != nil {
		log.Warnf("Failed to initialize Telegram bot: %v", err)
		return nil
	}

	log.Info("Telegram notifications enabled")
	return bot
}

// startMetricsServer exposes /metrics for Prometheus scraping
func startMetricsServer(port int, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("Metrics server listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics server failed: %v", err)
		}
	}()
}

// waitForShutdown blocks until a signal arrives. The first signal requests a
// graceful stop after the current cycle; a second one forces immediate exit.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, scheduler *workers.Scheduler, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down... (send signal again to force exit)")

	go func() {
		<-quit
		log.Warn("Forced exit")
		os.Exit(1)
	}()

	cancel()
	if err := scheduler.Stop(); err != nil {
		log.Warnf("Scheduler shutdown: %v", err)
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(ctx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
