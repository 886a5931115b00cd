// Package main provides the CLI tool for the sentiment service.
// Uses Cobra for command parsing — Cobra is the standard Go CLI framework
// (used by kubectl, docker, hugo, and many others).
//
// Run with: go run ./cmd/cli ask --ticker AAPL
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/config"
	"github.com/fleveque/sentiment-service/internal/llm"
	"github.com/fleveque/sentiment-service/internal/service"
	"github.com/fleveque/sentiment-service/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command. Cobra builds a tree of commands:
// sentiment-cli ask --ticker AAPL
// sentiment-cli stats --limit 20
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sentiment-cli",
		Short: "Market sentiment service CLI tools",
	}

	root.AddCommand(askCmd())
	root.AddCommand(statsCmd())
	return root
}

func askCmd() *cobra.Command {
	var ticker string

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Run a one-shot sentiment query without the HTTP server",
		// RunE returns an error (vs Run which doesn't). Cobra prints the error automatically.
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticker == "" {
				return fmt.Errorf("--ticker is required")
			}
			return runAsk(cmd.Context(), ticker)
		},
	}

	cmd.Flags().StringVar(&ticker, "ticker", "", "Stock ticker symbol to analyze")
	return cmd
}

func statsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show recent outbound LLM calls from the query log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent queries to show")
	return cmd
}

// setup loads config and wires the shared pieces. The CLI reuses the exact
// same service the HTTP handler uses — same providers, same query log.
func setup() (*config.Config, *zap.Logger, storage.QueryRepository, func(), error) {
	configPath := os.Getenv("SENTIMENT_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	// Always use development mode for CLI — human-readable output.
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	cleanup := func() {
		db.Close()
		_ = logger.Sync()
	}
	return cfg, logger, storage.NewQueryRepository(db), cleanup, nil
}

func runAsk(ctx context.Context, ticker string) error {
	cfg, logger, queryRepo, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	params := llm.Params{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	var clients []llm.Client
	for _, name := range cfg.LLM.ProviderOrder {
		switch name {
		case "openai":
			if cfg.LLM.OpenAI.APIKey != "" {
				clients = append(clients, llm.NewOpenAIClient(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, params))
			}
		case "anthropic":
			if cfg.LLM.Anthropic.APIKey != "" {
				clients = append(clients, llm.NewAnthropicClient(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model, params))
			}
		default:
			return fmt.Errorf("unknown LLM provider in provider_order: %s", name)
		}
	}
	if len(clients) == 0 {
		return fmt.Errorf("no LLM provider configured")
	}

	analyzer := service.NewSentimentService(clients, cfg.LLM.RatePerMinute, queryRepo, logger)

	queryCtx, cancel := context.WithTimeout(ctx, cfg.LLM.RequestTimeout)
	defer cancel()

	report, err := analyzer.Analyze(queryCtx, ticker)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", ticker, err)
	}

	// Print the same JSON shape the HTTP API returns.
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runStats(ctx context.Context, limit int) error {
	_, _, queryRepo, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := queryRepo.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing queries: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("no queries recorded yet")
		return nil
	}

	for _, r := range records {
		status := "ok"
		if !r.Success {
			status = "FAILED"
		}
		duration := int64(0)
		if r.DurationMs != nil {
			duration = *r.DurationMs
		}
		fmt.Printf("%s  %-8s %-10s %-28s %6dms  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Ticker, r.Provider, r.Model, duration, status)
	}
	return nil
}
