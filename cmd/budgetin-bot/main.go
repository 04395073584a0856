package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetin/internal/amqp"
	"budgetin/internal/classify"
	"budgetin/internal/config"
	"budgetin/internal/core"
	apphttp "budgetin/internal/http"
	"budgetin/internal/ledger"
	applog "budgetin/internal/log"
	"budgetin/internal/services"
	"budgetin/internal/storage"
	"budgetin/internal/telegram"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentBot})
	applog.SetDefault(logger)

	logger.Info("Starting budgetin-bot")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	classifier := buildClassifier(cfg, logger)

	// AMQP is optional; without it transactions stay pending until the
	// worker's startup sweep picks them up.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without sync publishing", "error", err)
		} else {
			defer amqpClient.Close()
		}
	}

	botClient, err := telegram.NewClient(telegram.ClientConfig{Token: cfg.TelegramBotToken})
	if err != nil {
		logger.Error("Failed to initialize Telegram client", "error", err)
		os.Exit(1)
	}

	tracker := services.NewTracker(ledger.New(repo), repo, classifier, amqpClient).
		WithDefaultThreshold(core.Money(cfg.LowBalanceThreshold)).
		WithBudgets(repo)

	srv := apphttp.NewServer(":"+cfg.Port, cfg.WebhookToken, tracker, botClient)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting webhook server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// buildClassifier chains Gemini over the keyword rules when an API key
// is configured, and falls back to rules alone otherwise.
func buildClassifier(cfg *config.Config, logger *applog.Logger) classify.Classifier {
	rules, err := classify.NewRules(classify.DefaultCategorySet())
	if err != nil {
		logger.Error("Failed to build rule classifier", "error", err)
		os.Exit(1)
	}

	if cfg.GeminiAPIKey == "" {
		logger.Info("Gemini disabled - no GEMINI_API_KEY provided, using keyword rules only")
		return rules
	}

	gemini, err := classify.NewGemini(classify.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		logger.Warn("Failed to initialize Gemini classifier, using keyword rules only", "error", err)
		return rules
	}
	logger.Info("Gemini classifier initialized", "model", cfg.GeminiModel)
	return classify.WithFallback(gemini, rules, 5*time.Second)
}
