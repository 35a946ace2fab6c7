package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/vladimiradmaev/fitness-helper/internal/bot"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/flow"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/state"
	"github.com/vladimiradmaev/fitness-helper/internal/config"
	"github.com/vladimiradmaev/fitness-helper/internal/database"
	"github.com/vladimiradmaev/fitness-helper/internal/logger"
	"github.com/vladimiradmaev/fitness-helper/internal/metrics"
	"github.com/vladimiradmaev/fitness-helper/internal/repository"
	"github.com/vladimiradmaev/fitness-helper/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(cfg.Logger.LoggerSettings()); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logger.Close()
	logger.Info("Starting Fitness Helper Bot...")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	store, closeStore, err := newStateStore(cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize conversation store", "error", err)
	}
	defer closeStore()

	repo := repository.New(db)
	metricsManager := metrics.NewManager("fitness", "bot", prometheus.DefaultRegisterer)

	machine := flow.NewMachine(flow.Dependencies{
		Repo:     repo,
		Store:    store,
		Stats:    services.NewStatsService(repo),
		Exporter: services.NewExportService(repo),
		Metrics:  metricsManager,
	}, flow.Options{TurnTimeout: cfg.State.TurnTimeout})
	logger.Info("Services initialized successfully", "state_backend", cfg.State.Backend)

	telegramBot, err := bot.NewBot(cfg.TelegramToken, machine, metricsManager, cfg.State.MailboxSize)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsServer := startMetricsServer(cfg.MetricsAddress)

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", "error", err)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to stop metrics server", "error", err)
		}
	}
	logger.Info("Bot stopped")
}

func newStateStore(cfg *config.Config, db *gorm.DB) (state.Store, func(), error) {
	switch cfg.State.Backend {
	case config.StateBackendMemory:
		logger.Warn("Conversation state is kept in memory and will be lost on restart")
		return state.NewMemoryStore(), func() {}, nil
	case config.StateBackendRedis:
		client, err := state.NewRedisClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		store := state.NewRedisStore(client, cfg.State.TTL)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close Redis client", "error", err)
			}
		}, nil
	default:
		return state.NewGormStore(db), func() {}, nil
	}
}

func startMetricsServer(addr string) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return server
}
