// Package main is the entry point for the sentiment-service HTTP server.
// In Go, the `main` package with a `main()` function is what gets executed.
// The binary is fully static — config comes from a YAML file and/or
// SENTIMENT_* environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/config"
	"github.com/fleveque/sentiment-service/internal/llm"
	"github.com/fleveque/sentiment-service/internal/server"
	"github.com/fleveque/sentiment-service/internal/service"
	"github.com/fleveque/sentiment-service/internal/storage"
)

func main() {
	// os.Exit ensures the process exits with a non-zero code on failure.
	// We call run() separately so deferred cleanup functions execute properly
	// (deferred functions don't run when os.Exit is called directly).
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	configPath := os.Getenv("SENTIMENT_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Set up structured logging with zap.
	// zap is a high-performance structured logger — it outputs JSON in production
	// and human-readable format in development.
	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync flushes buffered log entries. We intentionally ignore the error here
	// because Sync commonly fails on stdout/stderr (not a real problem).
	defer func() { _ = logger.Sync() }()

	// Open the query log database
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Build LLM clients in configured order
	clients, err := buildClients(cfg, logger)
	if err != nil {
		return err
	}

	queryRepo := storage.NewQueryRepository(db)
	analyzer := service.NewSentimentService(clients, cfg.LLM.RatePerMinute, queryRepo, logger)

	// Create and start the HTTP server
	srv := server.New(cfg, server.Deps{
		Analyzer:  analyzer,
		QueryRepo: queryRepo,
	}, logger)

	// Graceful shutdown: listen for SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine (lightweight thread managed by Go runtime).
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or the server errors out.
	// select is like a switch for channels — it waits until one is ready.
	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// buildClients constructs LLM clients following llm.provider_order, skipping
// providers with no API key. At least one configured provider is required —
// the service is nothing but a proxy to them.
func buildClients(cfg *config.Config, logger *zap.Logger) ([]llm.Client, error) {
	params := llm.Params{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	var clients []llm.Client
	for _, name := range cfg.LLM.ProviderOrder {
		switch name {
		case "openai":
			if cfg.LLM.OpenAI.APIKey == "" {
				logger.Warn("openai in provider_order but no API key configured, skipping")
				continue
			}
			clients = append(clients, llm.NewOpenAIClient(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, params))
		case "anthropic":
			if cfg.LLM.Anthropic.APIKey == "" {
				logger.Warn("anthropic in provider_order but no API key configured, skipping")
				continue
			}
			clients = append(clients, llm.NewAnthropicClient(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model, params))
		default:
			return nil, fmt.Errorf("unknown LLM provider in provider_order: %s", name)
		}
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("no LLM provider configured: set SENTIMENT_LLM_OPENAI_API_KEY or SENTIMENT_LLM_ANTHROPIC_API_KEY")
	}

	return clients, nil
}
