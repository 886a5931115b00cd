// Package service contains the core business logic for sentiment queries.
// SentimentService makes exactly one live LLM call per request — there is no
// cache and no stored result to fall back on. Providers are tried in
// configured order; the first success wins.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/sentiment-service/internal/llm"
	"github.com/fleveque/sentiment-service/internal/model"
	"github.com/fleveque/sentiment-service/internal/storage"
)

// SentimentService asks chat-completion providers for market sentiment on a
// ticker and assembles the API response.
//
// Rate limited to prevent excessive API costs (~10 calls/minute by default).
// Every outbound call is recorded in the query log, success or failure.
type SentimentService struct {
	clients   []llm.Client // Ordered list: first is primary, rest are fallbacks
	limiter   *rate.Limiter
	queryRepo storage.QueryRepository
	logger    *zap.Logger
}

// NewSentimentService creates a service with an ordered list of LLM clients.
// The order is configurable via config.yaml: llm.provider_order: ["openai", "anthropic"]
// This means swapping provider priority is a config change, not a code change.
func NewSentimentService(
	clients []llm.Client,
	ratePerMinute int,
	queryRepo storage.QueryRepository,
	logger *zap.Logger,
) *SentimentService {
	// Convert rate per minute to rate per second for the limiter.
	// rate.Every returns a rate.Limit from a time interval between events.
	rps := rate.Every(time.Minute / time.Duration(ratePerMinute))

	return &SentimentService{
		clients:   clients,
		limiter:   rate.NewLimiter(rps, 1), // burst of 1 — strict rate limiting
		queryRepo: queryRepo,
		logger:    logger,
	}
}

// Analyze asks the providers (in configured order) for sentiment commentary
// on a ticker. The returned report echoes the ticker exactly as given and
// carries the model's reply verbatim as reasoning. The sentiment label is
// the Unknown placeholder — see model.SentimentUnknown.
func (s *SentimentService) Analyze(ctx context.Context, ticker string) (*model.SentimentReport, error) {
	if len(s.clients) == 0 {
		return nil, fmt.Errorf("no LLM providers configured")
	}

	var lastErr error

	// Try each provider in order. The order is set by config: llm.provider_order
	for i, client := range s.clients {
		// Rate limit — blocks until a token is available or context is cancelled.
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		reasoning, err := s.tryProvider(ctx, client, ticker)
		if err == nil {
			return &model.SentimentReport{
				Ticker:    ticker,
				Sentiment: model.SentimentUnknown,
				Reasoning: reasoning,
			}, nil
		}

		lastErr = err

		if i < len(s.clients)-1 {
			s.logger.Warn("LLM provider failed, trying next",
				zap.String("ticker", ticker),
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return nil, fmt.Errorf("all LLM providers failed for %s: %w", ticker, lastErr)
}

func (s *SentimentService) tryProvider(ctx context.Context, client llm.Client, ticker string) (string, error) {
	start := time.Now()

	reasoning, err := client.AnalyzeSentiment(ctx, ticker)
	duration := time.Since(start).Milliseconds()

	// Record the call for cost tracking — failures included.
	s.recordQuery(ctx, client, ticker, err, duration)

	if err != nil {
		return "", err
	}

	return reasoning, nil
}

// recordQuery writes one row to the query log. A logging failure must not
// fail the request, so errors here are logged and swallowed.
func (s *SentimentService) recordQuery(ctx context.Context, client llm.Client, ticker string, callErr error, durationMs int64) {
	record := &model.QueryRecord{
		Ticker:   ticker,
		Provider: client.ProviderName(),
		Model:    client.ModelName(),
		Success:  callErr == nil,
	}
	record.DurationMs = &durationMs
	if callErr != nil {
		msg := callErr.Error()
		record.ErrorMessage = &msg
	}

	// WithoutCancel: if the request deadline already fired (the usual failure
	// mode we want to record), the insert must still go through.
	if err := s.queryRepo.Create(context.WithoutCancel(ctx), record); err != nil {
		s.logger.Error("recording query", zap.Error(err))
	}
}
